package model

// WizardMode records how the wizard was entered
type WizardMode string

const (
	WizardModeCreate WizardMode = "create"
	WizardModeEdit   WizardMode = "edit"
	WizardModeImport WizardMode = "import"
)

// ValidationStatus is the outcome of a step-level check
type ValidationStatus string

const (
	StatusDefault ValidationStatus = "default"
	StatusSuccess ValidationStatus = "success"
	StatusError   ValidationStatus = "error"
)

// StepFileSystem is the key of the file system step in StepValidations
const StepFileSystem = "file-system"

// WizardState is the full in-memory representation of wizard selections
type WizardState struct {
	Mode               WizardMode                  `json:"wizardMode" yaml:"wizardMode"`
	Details            Details                     `json:"details" yaml:"details"`
	Distribution       string                      `json:"distribution" yaml:"distribution"`
	Architecture       string                      `json:"architecture" yaml:"architecture"`
	ImageTypes         []string                    `json:"imageTypes" yaml:"imageTypes"`
	AWS                AWSTarget                   `json:"aws" yaml:"aws"`
	GCP                GCPTarget                   `json:"gcp" yaml:"gcp"`
	Azure              AzureTarget                 `json:"azure" yaml:"azure"`
	Registration       Registration                `json:"registration" yaml:"registration"`
	OpenScap           OpenScapProfile             `json:"openScap" yaml:"openScap"`
	FileSystem         FileSystem                  `json:"fileSystem" yaml:"fileSystem"`
	Repositories       Repositories                `json:"repositories" yaml:"repositories"`
	Packages           []Package                   `json:"packages" yaml:"packages"`
	EnabledModules     []Module                    `json:"enabledModules" yaml:"enabledModules"`
	Users              []User                      `json:"users" yaml:"users"`
	UserGroups         []UserGroup                 `json:"userGroups" yaml:"userGroups"`
	Services           Services                    `json:"services" yaml:"services"`
	Kernel             Kernel                      `json:"kernel" yaml:"kernel"`
	Hostname           string                      `json:"hostname" yaml:"hostname"`
	Timezone           Timezone                    `json:"timezone" yaml:"timezone"`
	Locale             Locale                      `json:"locale" yaml:"locale"`
	Firewall           Firewall                    `json:"firewall" yaml:"firewall"`
	FIPS               bool                        `json:"fips" yaml:"fips"`
	InstallationDevice string                      `json:"installationDevice" yaml:"installationDevice"`
	SnapshotDate       string                      `json:"snapshotDate,omitempty" yaml:"snapshotDate,omitempty"`
	Metadata           StateMetadata               `json:"metadata" yaml:"metadata"`
	StepValidations    map[string]ValidationStatus `json:"stepValidations" yaml:"stepValidations"`
}

// Details is the name and description step
type Details struct {
	BlueprintName        string `json:"blueprintName" yaml:"blueprintName"`
	BlueprintDescription string `json:"blueprintDescription" yaml:"blueprintDescription"`
}

// AWS share methods
const (
	AWSShareManual  = "manual"
	AWSShareSources = "sources"
)

// AWSTarget holds AWS sharing settings
type AWSTarget struct {
	AccountID   string `json:"accountId" yaml:"accountId"`
	ShareMethod string `json:"shareMethod" yaml:"shareMethod"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// GCP share methods and account types
const (
	GCPShareWithGoogle   = "withGoogle"
	GCPShareWithInsights = "withInsights"

	GCPAccountGoogle  = "google"
	GCPAccountService = "service"
	GCPAccountGroup   = "group"
	GCPAccountDomain  = "domain"
)

// GCPTarget holds GCP sharing settings
type GCPTarget struct {
	ShareMethod string `json:"shareMethod" yaml:"shareMethod"`
	AccountType string `json:"accountType,omitempty" yaml:"accountType,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Azure share methods
const (
	AzureShareManual  = "manual"
	AzureShareSources = "sources"
)

// AzureTarget holds Azure upload settings
type AzureTarget struct {
	ShareMethod    string `json:"shareMethod" yaml:"shareMethod"`
	TenantID       string `json:"tenantId" yaml:"tenantId"`
	SubscriptionID string `json:"subscriptionId" yaml:"subscriptionId"`
	ResourceGroup  string `json:"resourceGroup" yaml:"resourceGroup"`
	Source         string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Registration types
const (
	RegisterLater       = "register-later"
	RegisterNow         = "register-now"
	RegisterNowInsights = "register-now-insights"
	RegisterNowRHC      = "register-now-rhc"
)

// Registration holds system registration choices
type Registration struct {
	Type          string `json:"registrationType" yaml:"registrationType"`
	ActivationKey string `json:"activationKey,omitempty" yaml:"activationKey,omitempty"`
	Organization  int    `json:"orgId,omitempty" yaml:"orgId,omitempty"`
	ServerURL     string `json:"serverUrl,omitempty" yaml:"serverUrl,omitempty"`
	BaseURL       string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
}

// File system modes
const (
	FileSystemAutomatic = "automatic"
	FileSystemManual    = "manual"
)

// FileSystem is the partitioning step
type FileSystem struct {
	Mode       string      `json:"mode" yaml:"mode"`
	Partitions []Partition `json:"partitions" yaml:"partitions"`
}

// Size units used by partitions
const (
	UnitKiB = "KiB"
	UnitMiB = "MiB"
	UnitGiB = "GiB"
)

// Partition is one row of the manual partitioning table.
// MinSize is expressed in Unit.
type Partition struct {
	ID         string `json:"id" yaml:"id"`
	Mountpoint string `json:"mountpoint" yaml:"mountpoint"`
	MinSize    uint64 `json:"min_size" yaml:"min_size"`
	Unit       string `json:"unit" yaml:"unit"`
}

// Bytes returns the partition size in bytes
func (p Partition) Bytes() uint64 {
	switch p.Unit {
	case UnitGiB:
		return p.MinSize << 30
	case UnitMiB:
		return p.MinSize << 20
	case UnitKiB:
		return p.MinSize << 10
	default:
		return p.MinSize
	}
}

// Repositories is the custom repositories step
type Repositories struct {
	CustomRepositories  []CustomRepository  `json:"customRepositories" yaml:"customRepositories"`
	PayloadRepositories []PayloadRepository `json:"payloadRepositories" yaml:"payloadRepositories"`
}

// Package is a selected package
type Package struct {
	Name string `json:"name" yaml:"name"`
}

// StateMetadata tracks import provenance
type StateMetadata struct {
	ParentID   string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	ExportedAt string `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
	IsOnPrem   bool   `json:"isOnPrem" yaml:"isOnPrem"`
}

// FileSystemStatus returns the recorded status of the file system step
func (s *WizardState) FileSystemStatus() ValidationStatus {
	if s == nil || s.StepValidations == nil {
		return StatusDefault
	}
	if status, ok := s.StepValidations[StepFileSystem]; ok {
		return status
	}
	return StatusDefault
}

// HasImageType reports whether the state targets imageType
func (s *WizardState) HasImageType(imageType string) bool {
	for _, t := range s.ImageTypes {
		if t == imageType {
			return true
		}
	}
	return false
}
