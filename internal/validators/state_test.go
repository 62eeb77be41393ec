package validators

import (
	"testing"

	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemStatus(t *testing.T) {
	tests := []struct {
		name string
		fs   model.FileSystem
		want model.ValidationStatus
	}{
		{
			name: "automatic",
			fs:   model.FileSystem{Mode: model.FileSystemAutomatic},
			want: model.StatusDefault,
		},
		{
			name: "valid manual",
			fs: model.FileSystem{Mode: model.FileSystemManual, Partitions: []model.Partition{
				{Mountpoint: "/", MinSize: 10, Unit: model.UnitGiB},
				{Mountpoint: "/home", MinSize: 1, Unit: model.UnitGiB},
			}},
			want: model.StatusSuccess,
		},
		{
			name: "duplicate mount point",
			fs: model.FileSystem{Mode: model.FileSystemManual, Partitions: []model.Partition{
				{Mountpoint: "/", MinSize: 10, Unit: model.UnitGiB},
				{Mountpoint: "/home", MinSize: 1, Unit: model.UnitGiB},
				{Mountpoint: "/home", MinSize: 2, Unit: model.UnitGiB},
			}},
			want: model.StatusError,
		},
		{
			name: "no root partition",
			fs: model.FileSystem{Mode: model.FileSystemManual, Partitions: []model.Partition{
				{Mountpoint: "/var", MinSize: 1, Unit: model.UnitGiB},
			}},
			want: model.StatusSuccess,
		},
		{
			name: "relative mount point",
			fs: model.FileSystem{Mode: model.FileSystemManual, Partitions: []model.Partition{
				{Mountpoint: "/", MinSize: 1, Unit: model.UnitGiB},
				{Mountpoint: "var", MinSize: 1, Unit: model.UnitGiB},
			}},
			want: model.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileSystemStatus(tt.fs))
		})
	}
}

func TestValidateState(t *testing.T) {
	state := &model.WizardState{
		Details:    model.Details{BlueprintName: "x"},
		ImageTypes: []string{model.ImageTypeAWS, model.ImageTypeAzure, model.ImageTypeGCP},
		AWS:        model.AWSTarget{ShareMethod: model.AWSShareManual, AccountID: "123"},
		Azure: model.AzureTarget{
			ShareMethod:    model.AzureShareManual,
			TenantID:       "b8f86d22-4371-46ce-95e7-65c415f3b1e2",
			SubscriptionID: "nope",
			ResourceGroup:  "rg",
		},
		GCP: model.GCPTarget{ShareMethod: model.GCPShareWithGoogle, AccountType: model.GCPAccountGoogle, Email: "a@b.io"},
	}

	errs := ValidateState(state)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"details.blueprintName", "aws.accountId", "azure.subscriptionId"}, fields)
}

func TestValidateStateSkipsUnselectedTargets(t *testing.T) {
	state := &model.WizardState{
		Details:    model.Details{BlueprintName: "valid-name"},
		ImageTypes: []string{model.ImageTypeGuestImage},
		AWS:        model.AWSTarget{ShareMethod: model.AWSShareManual},
	}
	assert.Empty(t, ValidateState(state))
	assert.Empty(t, ValidateState(nil))
}

func TestFieldErrorString(t *testing.T) {
	err := FieldError{Field: "hostname", Message: "bad"}
	require.Error(t, err)
	assert.Equal(t, "hostname: bad", err.Error())
}
