// Package review builds the read-only summary shown on the last wizard step.
package review

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sourceplane/imagewizard/internal/model"
)

// Section titles
const (
	SectionImageOutput  = "Image output"
	SectionFileSystem   = "File system configuration"
	SectionAWS          = "AWS"
	SectionGCP          = "GCP"
	SectionAzure        = "Microsoft Azure"
	SectionOCI          = "Oracle Cloud Infrastructure"
	SectionOther        = "Other targets"
	SectionContent      = "Content"
	SectionRegistration = "Registration"
	SectionImageDetails = "Image details"
	SectionOpenScap     = "OpenSCAP"
)

const (
	hostedImage       = "Red Hat hosted image"
	expirationWarning = "Expires 14 days after creation"
	defaultAWSRegion  = "us-east-1"
)

// Item is one term/description row
type Item struct {
	Term        string `json:"term"`
	Description string `json:"description"`
}

// Section is a titled list of review rows
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Source is a provisioning source resolved by the caller
type Source struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
}

// Context carries data the review needs but the wizard state does not hold.
// Everything here is resolved by the caller from backend services.
type Context struct {
	IsBeta     bool                   `json:"is_beta" yaml:"is_beta"`
	AWSSources []Source               `json:"aws_sources,omitempty" yaml:"aws_sources,omitempty"`
	Oscap      *model.OpenScapProfile `json:"oscap,omitempty" yaml:"oscap,omitempty"`
	OrgID      string                 `json:"org_id,omitempty" yaml:"org_id,omitempty"`
}

// Build returns the review sections for state in display order
func Build(state *model.WizardState, ctx Context) []Section {
	if state == nil {
		return nil
	}

	sections := []Section{imageOutput(state), fileSystem(state)}

	if state.HasImageType(model.ImageTypeAWS) {
		sections = append(sections, awsTarget(state, ctx))
	}
	if state.HasImageType(model.ImageTypeGCP) {
		sections = append(sections, gcpTarget(state))
	}
	if state.HasImageType(model.ImageTypeAzure) {
		sections = append(sections, azureTarget(state))
	}
	if state.HasImageType(model.ImageTypeOCI) {
		sections = append(sections, Section{Title: SectionOCI, Items: []Item{
			{Term: "Object Storage URL", Description: "The URL for the built image will be ready to copy"},
		}})
	}
	if other := otherTargets(state); len(other.Items) > 0 {
		sections = append(sections, other)
	}

	sections = append(sections, content(state), registration(state, ctx))

	if details := imageDetails(state); len(details.Items) > 0 {
		sections = append(sections, details)
	}
	if state.OpenScap.ProfileID != "" {
		sections = append(sections, oscap(state, ctx))
	}

	return sections
}

func imageOutput(state *model.WizardState) Section {
	return Section{Title: SectionImageOutput, Items: []Item{
		{Term: "Release", Description: model.ReleaseName(state.Distribution)},
		{Term: "Architecture", Description: state.Architecture},
	}}
}

func fileSystem(state *model.WizardState) Section {
	s := Section{Title: SectionFileSystem}
	if state.FileSystem.Mode != model.FileSystemManual {
		s.Items = append(s.Items, Item{Term: "Partitioning", Description: "Automatic partitioning"})
		return s
	}
	s.Items = append(s.Items, Item{Term: "Partitioning", Description: "Manually configure partitions"})
	for _, p := range state.FileSystem.Partitions {
		s.Items = append(s.Items, Item{Term: p.Mountpoint, Description: humanize.IBytes(p.Bytes())})
	}
	return s
}

func awsTarget(state *model.WizardState, ctx Context) Section {
	s := Section{Title: SectionAWS, Items: []Item{
		{Term: "Image type", Description: hostedImage + " (" + expirationWarning + ")"},
	}}

	account := state.AWS.AccountID
	var source *Source
	if state.AWS.ShareMethod == model.AWSShareSources {
		source = findSource(ctx.AWSSources, state.AWS.Source)
		if ctx.IsBeta {
			account = ""
			if source != nil {
				account = source.AccountID
			}
		}
	}
	s.Items = append(s.Items, Item{Term: "Shared to account", Description: account})

	if state.AWS.ShareMethod == model.AWSShareSources {
		name := ""
		if source != nil {
			name = source.Name
		}
		s.Items = append(s.Items, Item{Term: "Source", Description: name})
	}

	s.Items = append(s.Items, Item{Term: "Default region", Description: defaultAWSRegion})
	return s
}

func findSource(sources []Source, id string) *Source {
	for i := range sources {
		if sources[i].ID == id {
			return &sources[i]
		}
	}
	return nil
}

func gcpTarget(state *model.WizardState) Section {
	s := Section{Title: SectionGCP, Items: []Item{
		{Term: "Image type", Description: hostedImage + " (" + expirationWarning + ")"},
	}}

	if state.GCP.ShareMethod == model.GCPShareWithInsights {
		s.Items = append(s.Items, Item{Term: "Shared with", Description: "Red Hat Insights only"})
		return s
	}

	var accountType string
	switch state.GCP.AccountType {
	case model.GCPAccountGroup:
		accountType = "Google group"
	case model.GCPAccountService:
		accountType = "Service account"
	case model.GCPAccountGoogle:
		accountType = "Google account"
	default:
		accountType = "Domain"
	}
	principal := "Principal"
	if state.GCP.AccountType == model.GCPAccountDomain {
		principal = "Domain"
	}
	email := state.GCP.Email
	if email == "" {
		email = state.GCP.AccountType
	}

	s.Items = append(s.Items,
		Item{Term: "Account type", Description: accountType},
		Item{Term: principal, Description: email},
	)
	return s
}

func azureTarget(state *model.WizardState) Section {
	s := Section{Title: SectionAzure, Items: []Item{
		{Term: "Image type", Description: hostedImage + " (" + expirationWarning + ")"},
	}}
	if state.Azure.ShareMethod == model.AzureShareSources {
		s.Items = append(s.Items, Item{Term: "Source", Description: state.Azure.Source})
	} else {
		s.Items = append(s.Items,
			Item{Term: "Tenant ID", Description: state.Azure.TenantID},
			Item{Term: "Subscription ID", Description: state.Azure.SubscriptionID},
		)
	}
	s.Items = append(s.Items, Item{Term: "Resource group", Description: state.Azure.ResourceGroup})
	return s
}

// otherTargets lists downloadable image types
func otherTargets(state *model.WizardState) Section {
	s := Section{Title: SectionOther}
	for _, t := range state.ImageTypes {
		switch t {
		case model.ImageTypeGuestImage, model.ImageTypeImageInstaller,
			model.ImageTypeVSphere, model.ImageTypeVSphereOVA, model.ImageTypeWSL:
			s.Items = append(s.Items, Item{Term: t, Description: "Built image will be available for download"})
		}
	}
	return s
}

func content(state *model.WizardState) Section {
	return Section{Title: SectionContent, Items: []Item{
		{Term: "Additional Red Hat and 3rd party packages", Description: strconv.Itoa(len(state.Packages))},
		{Term: "Custom repositories", Description: strconv.Itoa(len(state.Repositories.CustomRepositories))},
	}}
}

func registration(state *model.WizardState, ctx Context) Section {
	s := Section{Title: SectionRegistration}
	regType := state.Registration.Type
	if regType == "" || regType == model.RegisterLater {
		s.Items = append(s.Items, Item{Term: "Registration type", Description: "Register the system later"})
		return s
	}

	s.Items = append(s.Items, Item{Term: "Registration type", Description: "Register with Red Hat Subscription Manager (RHSM)"})
	// rhc registration connects to Insights too, so both types show this line
	if regType == model.RegisterNowInsights || regType == model.RegisterNowRHC {
		s.Items = append(s.Items, Item{Description: "Connect to Red Hat Insights"})
	}
	if regType == model.RegisterNowRHC {
		s.Items = append(s.Items, Item{Description: "Use remote host configuration (rhc) utility"})
	}
	s.Items = append(s.Items, Item{Term: "Activation key", Description: state.Registration.ActivationKey})

	orgID := ctx.OrgID
	if orgID == "" && state.Registration.Organization != 0 {
		orgID = strconv.Itoa(state.Registration.Organization)
	}
	if orgID != "" {
		s.Items = append(s.Items, Item{Term: "Organization ID", Description: orgID})
	}
	return s
}

func imageDetails(state *model.WizardState) Section {
	s := Section{Title: SectionImageDetails}
	if state.Details.BlueprintName != "" {
		s.Items = append(s.Items, Item{Term: "Image name", Description: state.Details.BlueprintName})
	}
	if state.Details.BlueprintDescription != "" {
		s.Items = append(s.Items, Item{Term: "Description", Description: state.Details.BlueprintDescription})
	}
	return s
}

func oscap(state *model.WizardState, ctx Context) Section {
	profile := state.OpenScap
	if ctx.Oscap != nil && ctx.Oscap.ProfileID == profile.ProfileID {
		profile.ProfileName = ctx.Oscap.ProfileName
		profile.ProfileDescription = ctx.Oscap.ProfileDescription
	}
	return Section{Title: SectionOpenScap, Items: []Item{
		{Term: "Profile name", Description: profile.ProfileName},
		{Term: "Profile description", Description: profile.ProfileDescription},
		{Term: "Reference ID", Description: profile.ProfileID},
	}}
}

// Find returns the section with title
func Find(sections []Section, title string) (Section, error) {
	for _, s := range sections {
		if s.Title == title {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("section %q not found", title)
}
