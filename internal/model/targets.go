package model

// Image types accepted in image requests
const (
	ImageTypeAWS            = "aws"
	ImageTypeAMI            = "ami"
	ImageTypeGCP            = "gcp"
	ImageTypeAzure          = "azure"
	ImageTypeVHD            = "vhd"
	ImageTypeOCI            = "oci"
	ImageTypeGuestImage     = "guest-image"
	ImageTypeImageInstaller = "image-installer"
	ImageTypeVSphere        = "vsphere"
	ImageTypeVSphereOVA     = "vsphere-ova"
	ImageTypeWSL            = "wsl"
)

// Upload request types
const (
	UploadTypeAWS      = "aws"
	UploadTypeAWSS3    = "aws.s3"
	UploadTypeGCP      = "gcp"
	UploadTypeAzure    = "azure"
	UploadTypeOCIStore = "oci.objectstorage"
)

// imageTypeAliases folds legacy names into the wizard's target names
var imageTypeAliases = map[string]string{
	ImageTypeAMI: ImageTypeAWS,
	ImageTypeVHD: ImageTypeAzure,
}

var knownImageTypes = map[string]bool{
	ImageTypeAWS:            true,
	ImageTypeGCP:            true,
	ImageTypeAzure:          true,
	ImageTypeOCI:            true,
	ImageTypeGuestImage:     true,
	ImageTypeImageInstaller: true,
	ImageTypeVSphere:        true,
	ImageTypeVSphereOVA:     true,
	ImageTypeWSL:            true,
}

var knownUploadTypes = map[string]bool{
	UploadTypeAWS:      true,
	UploadTypeAWSS3:    true,
	UploadTypeGCP:      true,
	UploadTypeAzure:    true,
	UploadTypeOCIStore: true,
}

// CanonicalImageType resolves aliases and reports whether the type is known
func CanonicalImageType(imageType string) (string, bool) {
	if alias, ok := imageTypeAliases[imageType]; ok {
		imageType = alias
	}
	return imageType, knownImageTypes[imageType]
}

// IsKnownUploadType reports whether t is an upload type the wizard understands.
// An empty type is accepted for targets that are only downloaded.
func IsKnownUploadType(t string) bool {
	return t == "" || knownUploadTypes[t]
}

// Architectures
const (
	ArchX86_64  = "x86_64"
	ArchAarch64 = "aarch64"
)

// DefaultDistribution is used when an import does not name one
const DefaultDistribution = "rhel-9"

// Releases maps distribution identifiers to display names.
// Iteration order is not significant; ReleaseName is the lookup.
var Releases = map[string]string{
	"rhel-10":   "Red Hat Enterprise Linux (RHEL) 10",
	"rhel-9":    "Red Hat Enterprise Linux (RHEL) 9",
	"rhel-8":    "Red Hat Enterprise Linux (RHEL) 8",
	"centos-9":  "CentOS Stream 9",
	"centos-10": "CentOS Stream 10",
	"fedora-41": "Fedora Linux 41",
	"fedora-42": "Fedora Linux 42",
}

// ReleaseName returns the display name of a distribution, or the identifier itself
func ReleaseName(distribution string) string {
	if name, ok := Releases[distribution]; ok {
		return name
	}
	return distribution
}
