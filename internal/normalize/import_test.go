package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func mustImport(t *testing.T, filename, content string) *model.ImportOutcome {
	t.Helper()
	outcome, ok := Import(filename, content)
	require.True(t, ok, "expected an outcome for %s", filename)
	require.NotNil(t, outcome)
	return outcome
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     model.SourceFormat
	}{
		{"blueprint.toml", model.FormatTOML},
		{"export.json", model.FormatJSON},
		{"archive.json.toml", model.FormatTOML},
		{"bad.txt", model.FormatUnknown},
		{"BLUEPRINT.TOML", model.FormatUnknown},
		{"json", model.FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.filename), tt.filename)
	}
}

func TestImportPrecondition(t *testing.T) {
	outcome, ok := Import("", `{"name":"x"}`)
	assert.False(t, ok)
	assert.Nil(t, outcome)

	outcome, ok = Import("blueprint.json", "")
	assert.False(t, ok)
	assert.Nil(t, outcome)
}

func TestImportTOML(t *testing.T) {
	outcome := mustImport(t, "blueprint.toml", readTestdata(t, "blueprint.toml"))
	require.True(t, outcome.Succeeded(), outcome.Message)
	assert.True(t, outcome.IsOnPrem)

	state := outcome.State
	assert.Equal(t, model.WizardModeImport, state.Mode)
	assert.Equal(t, "base-image", state.Details.BlueprintName)
	assert.Equal(t, "A base image", state.Details.BlueprintDescription)
	assert.Equal(t, "rhel-9", state.Distribution)
	assert.Equal(t, model.ArchX86_64, state.Architecture)
	assert.Empty(t, state.ImageTypes)
	assert.True(t, state.Metadata.IsOnPrem)
	assert.Equal(t, model.RegisterLater, state.Registration.Type)

	assert.Equal(t, []model.Package{{Name: "vim-enhanced"}, {Name: "tmux"}, {Name: "@core"}}, state.Packages)
	assert.Equal(t, []model.Module{{Name: "nodejs", Stream: "20"}}, state.EnabledModules)
	assert.Equal(t, []model.UserGroup{{Name: "devs", GID: 1050}}, state.UserGroups)
	assert.Equal(t, "base", state.Hostname)
	assert.Equal(t, "/dev/sda", state.InstallationDevice)
	assert.True(t, state.FIPS)
	assert.Equal(t, "nosmt=force", state.Kernel.Append)
	assert.Equal(t, "Europe/Prague", state.Timezone.Timezone)
	assert.Equal(t, []string{"sshd"}, state.Services.Enabled)
	assert.Equal(t, []string{"telnet"}, state.Services.Masked)

	wantUsers := []model.User{
		{Name: "admin", SSHKey: "ssh-rsa AAAAB3Nza admin@example.com", Groups: []string{"wheel"}},
		{Name: "root", SSHKey: "ssh-ed25519 AAAAC3Nza root@example.com"},
	}
	if diff := cmp.Diff(wantUsers, state.Users); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, model.FileSystemManual, state.FileSystem.Mode)
	require.Len(t, state.FileSystem.Partitions, 2)
	assert.Equal(t, "/", state.FileSystem.Partitions[0].Mountpoint)
	assert.Equal(t, uint64(10), state.FileSystem.Partitions[0].MinSize)
	assert.Equal(t, model.UnitGiB, state.FileSystem.Partitions[0].Unit)
	assert.Equal(t, uint64(1), state.FileSystem.Partitions[1].MinSize)
	assert.Equal(t, model.StatusSuccess, state.StepValidations[model.StepFileSystem])

	require.Len(t, state.Repositories.CustomRepositories, 1)
	assert.Equal(t, "epel", state.Repositories.CustomRepositories[0].ID)
	assert.True(t, state.Repositories.CustomRepositories[0].Enabled)
	require.Len(t, state.Repositories.PayloadRepositories, 1)
	assert.True(t, state.Repositories.PayloadRepositories[0].CheckGPG)
}

func TestImportMinimalTOML(t *testing.T) {
	outcome := mustImport(t, "blueprint.toml", "name = \"tiny\"\n")
	require.True(t, outcome.Succeeded(), outcome.Message)
	assert.True(t, outcome.IsOnPrem)
	assert.Equal(t, "tiny", outcome.State.Details.BlueprintName)
	assert.Equal(t, model.DefaultDistribution, outcome.State.Distribution)
	assert.Equal(t, model.StatusDefault, outcome.State.StepValidations[model.StepFileSystem])
}

func TestImportTOMLWithoutRootPartition(t *testing.T) {
	content := "name = \"data\"\n\n[[customizations.filesystem]]\nmountpoint = \"/var\"\nminsize = \"2 GiB\"\n"
	outcome := mustImport(t, "blueprint.toml", content)
	require.True(t, outcome.Succeeded(), outcome.Message)
	assert.Equal(t, model.FileSystemManual, outcome.State.FileSystem.Mode)
	assert.Equal(t, model.StatusSuccess, outcome.State.StepValidations[model.StepFileSystem])
}

func TestImportHostedJSON(t *testing.T) {
	outcome := mustImport(t, "export.json", readTestdata(t, "export.json"))
	require.True(t, outcome.Succeeded(), outcome.Message)
	assert.False(t, outcome.IsOnPrem)

	state := outcome.State
	assert.Equal(t, "web-server", state.Details.BlueprintName)
	assert.Equal(t, "rhel-10", state.Distribution)
	assert.Equal(t, model.ArchAarch64, state.Architecture)
	assert.Equal(t, []string{model.ImageTypeAWS, model.ImageTypeGCP, model.ImageTypeGuestImage}, state.ImageTypes)
	assert.Equal(t, model.AWSTarget{ShareMethod: model.AWSShareManual, AccountID: "123456789012"}, state.AWS)
	assert.Equal(t, model.GCPTarget{
		ShareMethod: model.GCPShareWithGoogle,
		AccountType: model.GCPAccountService,
		Email:       "builder@project.iam.gserviceaccount.com",
	}, state.GCP)

	assert.Equal(t, model.Registration{
		Type:          model.RegisterNowInsights,
		ActivationKey: "web-key",
		Organization:  12345,
		ServerURL:     "subscription.rhsm.redhat.com",
		BaseURL:       "https://cdn.redhat.com/",
	}, state.Registration)

	require.Len(t, state.FileSystem.Partitions, 2)
	assert.Equal(t, uint64(500), state.FileSystem.Partitions[1].MinSize)
	assert.Equal(t, model.UnitMiB, state.FileSystem.Partitions[1].Unit)
	assert.Equal(t, "xccdf_org.ssgproject.content_profile_cis", state.OpenScap.ProfileID)
	assert.Equal(t, "0f9c42b8-7e4f-4b4a-9d8c-2f0b0c3d9a11", state.Metadata.ParentID)
	assert.False(t, state.Metadata.IsOnPrem)
}

func TestImportHostedJSONWithoutRequests(t *testing.T) {
	outcome := mustImport(t, "export.json", `{"name":"x","distribution":"rhel-9"}`)
	require.True(t, outcome.Succeeded(), outcome.Message)
	assert.False(t, outcome.IsOnPrem)
	assert.Equal(t, "x", outcome.State.Details.BlueprintName)
	assert.Empty(t, outcome.State.ImageTypes)
}

func TestImportJSONFallsBackToOnPrem(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantName    string
		wantDistro  string
		wantPackage string
	}{
		{
			name:        "missing distribution",
			content:     `{"name":"legacy","distro":"centos-9","packages":[{"name":"tmux","version":"*"}]}`,
			wantName:    "legacy",
			wantDistro:  "centos-9",
			wantPackage: "tmux",
		},
		{
			name:       "unknown image type",
			content:    `{"name":"x","distribution":"rhel-9","image_requests":[{"image_type":"floppy"}]}`,
			wantName:   "x",
			wantDistro: model.DefaultDistribution,
		},
		{
			name:       "mistyped customizations",
			content:    `{"name":"typed","distribution":"rhel-9","customizations":{"packages":"vim"}}`,
			wantName:   "typed",
			wantDistro: model.DefaultDistribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := mustImport(t, "blueprint.json", tt.content)
			require.True(t, outcome.Succeeded(), outcome.Message)
			assert.True(t, outcome.IsOnPrem)
			assert.Equal(t, tt.wantName, outcome.State.Details.BlueprintName)
			assert.Equal(t, tt.wantDistro, outcome.State.Distribution)
			if tt.wantPackage != "" {
				assert.Contains(t, outcome.State.Packages, model.Package{Name: tt.wantPackage})
			}
		})
	}
}

func TestImportFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		reason   model.FailureReason
		message  string
	}{
		{
			name:     "unrecognized suffix",
			filename: "bad.txt",
			content:  "{{{ not parsed",
			reason:   model.ReasonUnrecognizedFormat,
			message:  "not compatible",
		},
		{
			name:     "malformed JSON",
			filename: "blueprint.json",
			content:  `{"name":`,
			reason:   model.ReasonInvalidFormat,
			message:  "failed to parse JSON",
		},
		{
			name:     "malformed TOML",
			filename: "blueprint.toml",
			content:  "name = ",
			reason:   model.ReasonInvalidFormat,
			message:  "failed to parse TOML",
		},
		{
			name:     "JSON array",
			filename: "blueprint.json",
			content:  `[1, 2, 3]`,
			reason:   model.ReasonInvalidFormat,
			message:  "must be an object, got array",
		},
		{
			name:     "unreadable minsize",
			filename: "blueprint.json",
			content:  `{"name":"x","customizations":{"filesystem":[{"mountpoint":"/","minsize":"lots"}]}}`,
			reason:   model.ReasonInvalidFormat,
			message:  "invalid minsize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := mustImport(t, tt.filename, tt.content)
			assert.False(t, outcome.Succeeded())
			assert.Nil(t, outcome.State)
			assert.Equal(t, tt.reason, outcome.Reason)
			assert.Contains(t, outcome.Message, tt.message)
			assert.Equal(t, tt.reason, model.ReasonOf(outcome.Err()))
		})
	}
}

func TestImportIsIdempotent(t *testing.T) {
	inputs := map[string]string{
		"blueprint.toml": readTestdata(t, "blueprint.toml"),
		"export.json":    readTestdata(t, "export.json"),
		"bad.txt":        "anything",
		"broken.json":    `{`,
	}
	for filename, content := range inputs {
		first := mustImport(t, filename, content)
		second := mustImport(t, filename, content)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s: outcomes differ (-first +second):\n%s", filename, diff)
		}
	}
}

func TestNormalizerWithCustomValidator(t *testing.T) {
	n := NewNormalizer(nil)
	outcome, ok := n.Import("export.json", `{"name":"x","distribution":"rhel-9"}`)
	require.True(t, ok)
	assert.False(t, outcome.IsOnPrem)
}
