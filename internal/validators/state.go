package validators

import (
	"fmt"

	"github.com/sourceplane/imagewizard/internal/model"
)

// FieldError reports one invalid wizard field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FileSystemStatus evaluates the partitioning step.
// Automatic partitioning has nothing to check and stays at the default status.
func FileSystemStatus(fs model.FileSystem) model.ValidationStatus {
	if fs.Mode != model.FileSystemManual {
		return model.StatusDefault
	}
	if len(FileSystemErrors(fs)) > 0 {
		return model.StatusError
	}
	return model.StatusSuccess
}

// FileSystemErrors lists problems with manual partitions
func FileSystemErrors(fs model.FileSystem) []FieldError {
	var errs []FieldError
	if fs.Mode != model.FileSystemManual {
		return errs
	}

	seen := make(map[string]bool)
	for i, p := range fs.Partitions {
		field := fmt.Sprintf("fileSystem.partitions[%d]", i)
		if !IsMountpointValid(p.Mountpoint) {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid mount point %q", p.Mountpoint)})
			continue
		}
		if seen[p.Mountpoint] {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("duplicate mount point %q", p.Mountpoint)})
		}
		seen[p.Mountpoint] = true
	}
	return errs
}

// ValidateState runs every check that applies to the selected targets
func ValidateState(state *model.WizardState) []FieldError {
	var errs []FieldError
	if state == nil {
		return errs
	}

	if !IsBlueprintNameValid(state.Details.BlueprintName) {
		errs = append(errs, FieldError{Field: "details.blueprintName", Message: "name must be 2 to 100 characters and contain a word character"})
	}
	if !IsBlueprintDescriptionValid(state.Details.BlueprintDescription) {
		errs = append(errs, FieldError{Field: "details.blueprintDescription", Message: "description must be at most 250 characters"})
	}
	if !IsHostnameValid(state.Hostname) {
		errs = append(errs, FieldError{Field: "hostname", Message: fmt.Sprintf("invalid hostname %q", state.Hostname)})
	}

	if state.HasImageType(model.ImageTypeAWS) && state.AWS.ShareMethod == model.AWSShareManual &&
		!IsAwsAccountIDValid(state.AWS.AccountID) {
		errs = append(errs, FieldError{Field: "aws.accountId", Message: "AWS account ID must be 12 digits"})
	}

	if state.HasImageType(model.ImageTypeGCP) && state.GCP.ShareMethod == model.GCPShareWithGoogle &&
		state.GCP.AccountType != model.GCPAccountDomain && !IsGcpEmailValid(state.GCP.Email) {
		errs = append(errs, FieldError{Field: "gcp.email", Message: "a valid email address is required"})
	}

	if state.HasImageType(model.ImageTypeAzure) && state.Azure.ShareMethod == model.AzureShareManual {
		if !IsAzureTenantGUIDValid(state.Azure.TenantID) {
			errs = append(errs, FieldError{Field: "azure.tenantId", Message: "tenant ID must be a GUID"})
		}
		if !IsAzureSubscriptionIDValid(state.Azure.SubscriptionID) {
			errs = append(errs, FieldError{Field: "azure.subscriptionId", Message: "subscription ID must be a GUID"})
		}
		if !IsAzureResourceGroupValid(state.Azure.ResourceGroup) {
			errs = append(errs, FieldError{Field: "azure.resourceGroup", Message: "invalid resource group name"})
		}
	}

	return append(errs, FileSystemErrors(state.FileSystem)...)
}
