// Package steps gates wizard navigation. Steps form a linear chain: once a
// step is invalid, every step after it is locked.
package steps

import "github.com/sourceplane/imagewizard/internal/model"

// StepID names a wizard step that takes part in validation
type StepID string

const (
	FileSystem         StepID = "fileSystem"
	CustomRepositories StepID = "customRepositories"
	AdditionalPackages StepID = "additionalPackages"
	Details            StepID = "details"
	Review             StepID = "review"
)

// Order is the fixed order of validated wizard steps
var Order = []StepID{FileSystem, CustomRepositories, AdditionalPackages, Details, Review}

// Step is one wizard step and whether its own data is invalid
type Step struct {
	ID      StepID `json:"id"`
	Invalid bool   `json:"invalid"`
}

// Validation tells the wizard what to disable for a step
type Validation struct {
	DisableNext bool `json:"disableNext"`
	DisableStep bool `json:"disableStep"`
}

// Result maps every step to its navigation state
type Result map[StepID]Validation

// Compute scans the steps in order. Each step disables "next" when it is
// invalid itself; the first invalid step locks all steps after it.
func Compute(list []Step) Result {
	result := make(Result, len(list))

	failed := -1
	for i, step := range list {
		result[step.ID] = Validation{DisableNext: step.Invalid}
		if step.Invalid {
			failed = i
			break
		}
	}

	if failed >= 0 {
		for _, step := range list[failed+1:] {
			result[step.ID] = Validation{DisableNext: true, DisableStep: true}
		}
	}

	return result
}

// WizardSteps builds the step list for the wizard. Only the file system
// step has a real check; the other steps are always valid.
func WizardSteps(fileSystem model.ValidationStatus) []Step {
	list := make([]Step, 0, len(Order))
	for _, id := range Order {
		step := Step{ID: id}
		if id == FileSystem {
			step.Invalid = fileSystem == model.StatusError
		}
		list = append(list, step)
	}
	return list
}

// ForState computes navigation for the step validations recorded in state
func ForState(state *model.WizardState) Result {
	return Compute(WizardSteps(state.FileSystemStatus()))
}

// FirstBlocked returns the first step whose own data blocks navigation
func FirstBlocked(list []Step, result Result) (StepID, bool) {
	for _, step := range list {
		if v := result[step.ID]; v.DisableNext && !v.DisableStep {
			return step.ID, true
		}
	}
	return "", false
}
