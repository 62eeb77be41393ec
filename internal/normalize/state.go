package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/validators"
)

// GCP principals are shared as "<kind>:<email>"
var gcpPrincipalKinds = map[string]string{
	"user":           model.GCPAccountGoogle,
	"serviceAccount": model.GCPAccountService,
	"group":          model.GCPAccountGroup,
	"domain":         model.GCPAccountDomain,
}

// MapExportToState builds the wizard state for an exported blueprint and the
// image requests that go with it. requests may be empty for on-premises
// blueprints, which carry no targets.
func MapExportToState(export *model.BlueprintExport, requests []model.ImageRequest) (*model.WizardState, error) {
	if export == nil {
		return nil, fmt.Errorf("blueprint export is nil")
	}

	state := newState()
	state.Details = model.Details{
		BlueprintName:        export.Name,
		BlueprintDescription: export.Description,
	}
	state.Distribution = export.Distribution
	if state.Distribution == "" {
		state.Distribution = model.DefaultDistribution
	}
	state.Metadata = model.StateMetadata{
		ParentID:   export.Metadata.ParentID,
		ExportedAt: export.Metadata.ExportedAt,
		IsOnPrem:   export.Metadata.IsOnPrem,
	}

	if err := mapImageRequests(state, requests); err != nil {
		return nil, err
	}

	c := export.Customizations
	state.Registration = mapRegistration(c.Subscription)
	state.FileSystem = mapPartitions(c.Filesystem)

	for _, name := range c.Packages {
		state.Packages = append(state.Packages, model.Package{Name: name})
	}
	state.EnabledModules = append(state.EnabledModules, c.EnabledModules...)
	state.Users = append(state.Users, c.Users...)
	state.UserGroups = append(state.UserGroups, c.Groups...)
	state.Repositories.CustomRepositories = append(state.Repositories.CustomRepositories, c.CustomRepositories...)
	state.Repositories.PayloadRepositories = append(state.Repositories.PayloadRepositories, c.PayloadRepositories...)

	if c.Services != nil {
		state.Services = *c.Services
	}
	if c.Kernel != nil {
		state.Kernel = *c.Kernel
	}
	if c.Timezone != nil {
		state.Timezone = *c.Timezone
	}
	if c.Locale != nil {
		state.Locale = *c.Locale
	}
	if c.Firewall != nil {
		state.Firewall = *c.Firewall
	}
	if c.OpenScap != nil {
		state.OpenScap = *c.OpenScap
	}
	if c.FIPS != nil {
		state.FIPS = c.FIPS.Enabled
	}
	state.Hostname = c.Hostname
	state.InstallationDevice = c.InstallationDevice

	state.StepValidations[model.StepFileSystem] = validators.FileSystemStatus(state.FileSystem)
	return state, nil
}

func newState() *model.WizardState {
	return &model.WizardState{
		Mode:         model.WizardModeImport,
		Architecture: model.ArchX86_64,
		ImageTypes:   []string{},
		AWS:          model.AWSTarget{ShareMethod: model.AWSShareManual},
		GCP:          model.GCPTarget{ShareMethod: model.GCPShareWithGoogle, AccountType: model.GCPAccountGoogle},
		Azure:        model.AzureTarget{ShareMethod: model.AzureShareSources},
		Registration: model.Registration{Type: model.RegisterLater},
		FileSystem: model.FileSystem{
			Mode:       model.FileSystemAutomatic,
			Partitions: []model.Partition{},
		},
		Repositories: model.Repositories{
			CustomRepositories:  []model.CustomRepository{},
			PayloadRepositories: []model.PayloadRepository{},
		},
		Packages:        []model.Package{},
		EnabledModules:  []model.Module{},
		Users:           []model.User{},
		UserGroups:      []model.UserGroup{},
		StepValidations: map[string]model.ValidationStatus{},
	}
}

func mapImageRequests(state *model.WizardState, requests []model.ImageRequest) error {
	if len(requests) == 0 {
		return nil
	}
	if arch := requests[0].Architecture; arch != "" {
		state.Architecture = arch
	}
	state.SnapshotDate = requests[0].SnapshotDate

	seen := make(map[string]bool)
	for i, req := range requests {
		imageType, ok := model.CanonicalImageType(req.ImageType)
		if !ok {
			return fmt.Errorf("image request %d: unknown image type %q", i, req.ImageType)
		}
		if !model.IsKnownUploadType(req.UploadRequest.Type) {
			return fmt.Errorf("image request %d: unknown upload type %q", i, req.UploadRequest.Type)
		}
		if !seen[imageType] {
			seen[imageType] = true
			state.ImageTypes = append(state.ImageTypes, imageType)
		}

		opts := req.UploadRequest.Options
		switch imageType {
		case model.ImageTypeAWS:
			state.AWS = mapAWSTarget(opts)
		case model.ImageTypeGCP:
			gcp, err := mapGCPTarget(opts)
			if err != nil {
				return fmt.Errorf("image request %d: %w", i, err)
			}
			state.GCP = gcp
		case model.ImageTypeAzure:
			state.Azure = mapAzureTarget(opts)
		}
	}
	return nil
}

func mapAWSTarget(opts model.UploadOptions) model.AWSTarget {
	if len(opts.ShareWithSources) > 0 {
		return model.AWSTarget{ShareMethod: model.AWSShareSources, Source: opts.ShareWithSources[0]}
	}
	target := model.AWSTarget{ShareMethod: model.AWSShareManual}
	if len(opts.ShareWithAccounts) > 0 {
		target.AccountID = opts.ShareWithAccounts[0]
	}
	return target
}

func mapGCPTarget(opts model.UploadOptions) (model.GCPTarget, error) {
	if len(opts.ShareWithAccounts) == 0 {
		return model.GCPTarget{ShareMethod: model.GCPShareWithInsights}, nil
	}
	principal := opts.ShareWithAccounts[0]
	kind, email, found := strings.Cut(principal, ":")
	accountType, ok := gcpPrincipalKinds[kind]
	if !found || !ok {
		return model.GCPTarget{}, fmt.Errorf("unrecognized GCP principal %q", principal)
	}
	return model.GCPTarget{
		ShareMethod: model.GCPShareWithGoogle,
		AccountType: accountType,
		Email:       email,
	}, nil
}

func mapAzureTarget(opts model.UploadOptions) model.AzureTarget {
	if opts.SourceID != "" {
		return model.AzureTarget{
			ShareMethod:   model.AzureShareSources,
			Source:        opts.SourceID,
			ResourceGroup: opts.ResourceGroup,
		}
	}
	return model.AzureTarget{
		ShareMethod:    model.AzureShareManual,
		TenantID:       opts.TenantID,
		SubscriptionID: opts.SubscriptionID,
		ResourceGroup:  opts.ResourceGroup,
	}
}

func mapRegistration(sub *model.Subscription) model.Registration {
	if sub == nil {
		return model.Registration{Type: model.RegisterLater}
	}
	reg := model.Registration{
		Type:          model.RegisterNow,
		ActivationKey: sub.ActivationKey,
		Organization:  sub.Organization,
		ServerURL:     sub.ServerURL,
		BaseURL:       sub.BaseURL,
	}
	switch {
	case sub.RHC:
		reg.Type = model.RegisterNowRHC
	case sub.Insights:
		reg.Type = model.RegisterNowInsights
	}
	return reg
}

// mapPartitions switches to manual partitioning when the export lists any
// mount points. IDs are derived from position and mount point so that the
// same export always yields the same state.
func mapPartitions(entries []model.FilesystemEntry) model.FileSystem {
	fs := model.FileSystem{Mode: model.FileSystemAutomatic, Partitions: []model.Partition{}}
	if len(entries) == 0 {
		return fs
	}
	fs.Mode = model.FileSystemManual
	for i, e := range entries {
		size, unit := sizeAndUnit(e.MinSize)
		fs.Partitions = append(fs.Partitions, model.Partition{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("imagewizard:partition:%d:%s", i, e.Mountpoint))).String(),
			Mountpoint: e.Mountpoint,
			MinSize:    size,
			Unit:       unit,
		})
	}
	return fs
}

// sizeAndUnit picks the largest unit that represents bytes exactly,
// rounding up to whole KiB otherwise.
func sizeAndUnit(bytes uint64) (uint64, string) {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)
	switch {
	case bytes == 0:
		return 0, model.UnitGiB
	case bytes%gib == 0:
		return bytes / gib, model.UnitGiB
	case bytes%mib == 0:
		return bytes / mib, model.UnitMiB
	case bytes%kib == 0:
		return bytes / kib, model.UnitKiB
	default:
		return (bytes + kib - 1) / kib, model.UnitKiB
	}
}
