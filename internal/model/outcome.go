package model

import (
	"errors"
	"fmt"
)

// SourceFormat is the import format derived from a filename suffix
type SourceFormat string

const (
	FormatUnknown SourceFormat = ""
	FormatTOML    SourceFormat = "toml"
	FormatJSON    SourceFormat = "json"
)

// FailureReason classifies a failed import
type FailureReason string

const (
	ReasonUnrecognizedFormat FailureReason = "UnrecognizedFormat"
	ReasonInvalidFormat      FailureReason = "InvalidFormat"
	ReasonRejectedFile       FailureReason = "RejectedFile"
)

var (
	ErrUnrecognizedFormat = errors.New("not compatible with the blueprints format")
	ErrInvalidFormat      = errors.New("file is not a valid blueprint")
	ErrRejectedFile       = errors.New("must be a valid blueprint JSON file no larger than 25 KB")
)

// RawImportFile is an uploaded file decoded to text
type RawImportFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ImportOutcome is either a populated wizard state or a failure reason.
type ImportOutcome struct {
	State    *WizardState  `json:"blueprint,omitempty"`
	IsOnPrem bool          `json:"is_on_prem"`
	Reason   FailureReason `json:"reason,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// Success builds a successful outcome
func Success(state *WizardState, isOnPrem bool) *ImportOutcome {
	return &ImportOutcome{State: state, IsOnPrem: isOnPrem}
}

// Failure builds a failed outcome carrying a display message
func Failure(reason FailureReason, message string) *ImportOutcome {
	return &ImportOutcome{Reason: reason, Message: message}
}

// Succeeded reports whether the outcome carries a wizard state
func (o *ImportOutcome) Succeeded() bool {
	return o != nil && o.Reason == "" && o.State != nil
}

// Err returns the failure as an error wrapping the matching sentinel, or nil
func (o *ImportOutcome) Err() error {
	if o == nil || o.Reason == "" {
		return nil
	}
	var sentinel error
	switch o.Reason {
	case ReasonUnrecognizedFormat:
		sentinel = ErrUnrecognizedFormat
	case ReasonRejectedFile:
		sentinel = ErrRejectedFile
	default:
		sentinel = ErrInvalidFormat
	}
	if o.Message == "" || o.Message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, o.Message)
}

// ReasonOf maps an error onto a failure reason
func ReasonOf(err error) FailureReason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnrecognizedFormat):
		return ReasonUnrecognizedFormat
	case errors.Is(err, ErrRejectedFile):
		return ReasonRejectedFile
	default:
		return ReasonInvalidFormat
	}
}
