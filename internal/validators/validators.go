// Package validators holds the field checks used by the wizard steps.
package validators

import (
	"strings"

	"github.com/grafana/regexp"
)

var (
	digitsRe        = regexp.MustCompile(`^\d+$`)
	guidRe          = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	resourceGroupRe = regexp.MustCompile(`^[-\w._()]+[-\w_()]$`)
	gcpEmailRe      = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,12}$`)
	wordRe          = regexp.MustCompile(`\w+`)
	hostnameRe      = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

const (
	awsAccountIDLength      = 12
	maxGcpEmailLength       = 253
	minBlueprintNameLength  = 2
	maxBlueprintNameLength  = 100
	maxBlueprintDescription = 250
	maxHostnameLength       = 253
)

// IsAwsAccountIDValid checks for a 12 digit AWS account ID
func IsAwsAccountIDValid(id string) bool {
	return digitsRe.MatchString(id) && len(id) == awsAccountIDLength
}

// IsAzureTenantGUIDValid checks the tenant GUID format
func IsAzureTenantGUIDValid(guid string) bool {
	return guidRe.MatchString(guid)
}

// IsAzureSubscriptionIDValid checks the subscription GUID format
func IsAzureSubscriptionIDValid(id string) bool {
	return guidRe.MatchString(id)
}

// IsAzureResourceGroupValid checks Azure resource group naming rules
func IsAzureResourceGroupValid(group string) bool {
	return resourceGroupRe.MatchString(group)
}

// IsGcpEmailValid checks the principal email GCP shares with
func IsGcpEmailValid(email string) bool {
	return gcpEmailRe.MatchString(email) && len(email) <= maxGcpEmailLength
}

// IsBlueprintNameValid checks name length and that it has a word character
func IsBlueprintNameValid(name string) bool {
	return len(name) >= minBlueprintNameLength &&
		len(name) <= maxBlueprintNameLength &&
		wordRe.MatchString(name)
}

// IsBlueprintDescriptionValid checks the description length
func IsBlueprintDescriptionValid(description string) bool {
	return len(description) <= maxBlueprintDescription
}

// IsHostnameValid checks an RFC 1123 host name; empty means unset
func IsHostnameValid(hostname string) bool {
	if hostname == "" {
		return true
	}
	return len(hostname) <= maxHostnameLength && hostnameRe.MatchString(hostname)
}

// IsMountpointValid checks that a mount point is an absolute clean path
func IsMountpointValid(mountpoint string) bool {
	if !strings.HasPrefix(mountpoint, "/") {
		return false
	}
	if mountpoint == "/" {
		return true
	}
	if strings.HasSuffix(mountpoint, "/") || strings.Contains(mountpoint, "//") {
		return false
	}
	for _, part := range strings.Split(mountpoint[1:], "/") {
		if part == "." || part == ".." {
			return false
		}
	}
	return true
}
