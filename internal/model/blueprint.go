package model

// BlueprintExport is the hosted image-builder export of a blueprint.
// Files exported from the hosted service also carry ImageRequests.
type BlueprintExport struct {
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Distribution   string         `json:"distribution" yaml:"distribution"`
	Customizations Customizations `json:"customizations" yaml:"customizations"`
	Metadata       ExportMetadata `json:"metadata" yaml:"metadata"`
	ImageRequests  []ImageRequest `json:"image_requests,omitempty" yaml:"image_requests,omitempty"`
}

// ExportMetadata describes where an export came from
type ExportMetadata struct {
	ParentID   string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	ExportedAt string `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	IsOnPrem   bool   `json:"is_on_prem" yaml:"is_on_prem"`
}

// Customizations holds the hosted customization block
type Customizations struct {
	Packages            []string            `json:"packages,omitempty" yaml:"packages,omitempty"`
	EnabledModules      []Module            `json:"enabled_modules,omitempty" yaml:"enabled_modules,omitempty"`
	Groups              []UserGroup         `json:"groups,omitempty" yaml:"groups,omitempty"`
	Users               []User              `json:"users,omitempty" yaml:"users,omitempty"`
	Services            *Services           `json:"services,omitempty" yaml:"services,omitempty"`
	Kernel              *Kernel             `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Hostname            string              `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Timezone            *Timezone           `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Locale              *Locale             `json:"locale,omitempty" yaml:"locale,omitempty"`
	Firewall            *Firewall           `json:"firewall,omitempty" yaml:"firewall,omitempty"`
	Filesystem          []FilesystemEntry   `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
	OpenScap            *OpenScapProfile    `json:"openscap,omitempty" yaml:"openscap,omitempty"`
	InstallationDevice  string              `json:"installation_device,omitempty" yaml:"installation_device,omitempty"`
	FIPS                *FIPS               `json:"fips,omitempty" yaml:"fips,omitempty"`
	CustomRepositories  []CustomRepository  `json:"custom_repositories,omitempty" yaml:"custom_repositories,omitempty"`
	PayloadRepositories []PayloadRepository `json:"payload_repositories,omitempty" yaml:"payload_repositories,omitempty"`
	Subscription        *Subscription       `json:"subscription,omitempty" yaml:"subscription,omitempty"`
}

// Module is an enabled DNF module stream
type Module struct {
	Name   string `json:"name" yaml:"name"`
	Stream string `json:"stream" yaml:"stream"`
}

// UserGroup is a system group created in the image
type UserGroup struct {
	Name string `json:"name" yaml:"name"`
	GID  int    `json:"gid,omitempty" yaml:"gid,omitempty"`
}

// User is a user account created in the image
type User struct {
	Name     string   `json:"name" yaml:"name"`
	SSHKey   string   `json:"ssh_key,omitempty" yaml:"ssh_key,omitempty"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Services lists systemd units by desired state
type Services struct {
	Enabled  []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Masked   []string `json:"masked,omitempty" yaml:"masked,omitempty"`
}

// Kernel selects the kernel package and command line
type Kernel struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Append string `json:"append,omitempty" yaml:"append,omitempty"`
}

// Timezone sets the system timezone and NTP servers
type Timezone struct {
	Timezone   string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	NTPServers []string `json:"ntpservers,omitempty" yaml:"ntpservers,omitempty"`
}

// Locale sets languages and keyboard layout
type Locale struct {
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	Keyboard  string   `json:"keyboard,omitempty" yaml:"keyboard,omitempty"`
}

// Firewall holds open ports and firewalld services
type Firewall struct {
	Ports    []string          `json:"ports,omitempty" yaml:"ports,omitempty"`
	Services *FirewallServices `json:"services,omitempty" yaml:"services,omitempty"`
}

// FirewallServices lists firewalld services by state
type FirewallServices struct {
	Enabled  []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// FilesystemEntry is a requested mount point with a minimal size in bytes
type FilesystemEntry struct {
	Mountpoint string `json:"mountpoint" yaml:"mountpoint"`
	MinSize    uint64 `json:"min_size" yaml:"min_size"`
}

// OpenScapProfile references a compliance profile
type OpenScapProfile struct {
	ProfileID          string `json:"profile_id" yaml:"profile_id"`
	ProfileName        string `json:"profile_name,omitempty" yaml:"profile_name,omitempty"`
	ProfileDescription string `json:"profile_description,omitempty" yaml:"profile_description,omitempty"`
}

// FIPS toggles FIPS mode
type FIPS struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// CustomRepository is a third party repository definition
type CustomRepository struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	BaseURL   []string `json:"baseurl,omitempty" yaml:"baseurl,omitempty"`
	GPGKey    []string `json:"gpgkey,omitempty" yaml:"gpgkey,omitempty"`
	CheckGPG  bool     `json:"check_gpg,omitempty" yaml:"check_gpg,omitempty"`
	Enabled   bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Priority  int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	SSLVerify bool     `json:"ssl_verify,omitempty" yaml:"ssl_verify,omitempty"`
}

// PayloadRepository is a repository used to resolve packages at build time
type PayloadRepository struct {
	BaseURL  string `json:"baseurl,omitempty" yaml:"baseurl,omitempty"`
	GPGKey   string `json:"gpgkey,omitempty" yaml:"gpgkey,omitempty"`
	CheckGPG bool   `json:"check_gpg,omitempty" yaml:"check_gpg,omitempty"`
	RHSM     bool   `json:"rhsm" yaml:"rhsm"`
}

// Subscription registers the built system
type Subscription struct {
	Organization  int    `json:"organization" yaml:"organization"`
	ActivationKey string `json:"activation-key" yaml:"activation-key"`
	ServerURL     string `json:"server-url,omitempty" yaml:"server-url,omitempty"`
	BaseURL       string `json:"base-url,omitempty" yaml:"base-url,omitempty"`
	Insights      bool   `json:"insights" yaml:"insights"`
	RHC           bool   `json:"rhc,omitempty" yaml:"rhc,omitempty"`
}

// ImageRequest asks for one image type on one architecture
type ImageRequest struct {
	Architecture  string        `json:"architecture" yaml:"architecture"`
	ImageType     string        `json:"image_type" yaml:"image_type"`
	UploadRequest UploadRequest `json:"upload_request" yaml:"upload_request"`
	SnapshotDate  string        `json:"snapshot_date,omitempty" yaml:"snapshot_date,omitempty"`
}

// UploadRequest tells the service where to put the built image
type UploadRequest struct {
	Type    string        `json:"type" yaml:"type"`
	Options UploadOptions `json:"options" yaml:"options"`
}

// UploadOptions is the union of per-target upload options
type UploadOptions struct {
	ShareWithAccounts []string `json:"share_with_accounts,omitempty" yaml:"share_with_accounts,omitempty"`
	ShareWithSources  []string `json:"share_with_sources,omitempty" yaml:"share_with_sources,omitempty"`
	TenantID          string   `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	SubscriptionID    string   `json:"subscription_id,omitempty" yaml:"subscription_id,omitempty"`
	ResourceGroup     string   `json:"resource_group,omitempty" yaml:"resource_group,omitempty"`
	SourceID          string   `json:"source_id,omitempty" yaml:"source_id,omitempty"`
}
