// Package importer drives a single blueprint import the way the import
// dialog does: a file is selected, its content arrives, it is normalized,
// and the user either finishes with the resulting wizard state or clears.
package importer

import (
	"sync"

	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/normalize"
)

// Helper texts shown under the file input
const (
	TextRejected     = "Must be a valid Blueprint JSON file no larger than 25 KB"
	TextInvalid      = "Not compatible with the blueprints format."
	TextOnPremBeta   = "Importing on-premises blueprints is currently in beta. Results may vary."
	TextDefault      = "Upload a JSON file"
	NotificationText = "File is not a valid blueprint"
)

// Variant is the severity of the helper text
type Variant string

const (
	VariantDefault Variant = "default"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Notification is a user-facing warning
type Notification struct {
	Variant     Variant
	Title       string
	Description string
}

// Notifier receives import warnings
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

// Notify calls f
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Session holds the state of one import dialog. It is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	normalizer *normalize.Normalizer
	notifier   Notifier

	filename      string
	content       string
	loading       bool
	rejected      bool
	invalidFormat bool
	onPrem        bool
	blueprint     *model.WizardState
	outcome       *model.ImportOutcome
}

// NewSession creates a session. A nil normalizer uses the built-in schema;
// a nil notifier drops notifications.
func NewSession(n *normalize.Normalizer, notifier Notifier) *Session {
	if n == nil {
		n = normalize.NewNormalizer(nil)
	}
	return &Session{normalizer: n, notifier: notifier}
}

// FileInputChange records a newly selected file and resets earlier errors
func (s *Session) FileInputChange(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content = ""
	s.filename = name
	s.rejected = false
	s.invalidFormat = false
	s.evaluate()
}

// DataChange records the decoded content of the selected file
func (s *Session) DataChange(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content = content
	s.evaluate()
}

// FileRejected marks the dropped file as refused by the size or type limits
func (s *Session) FileRejected() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rejected = true
	s.onPrem = false
	s.content = ""
	s.filename = ""
}

// ReadStarted marks the file read as in progress
func (s *Session) ReadStarted() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

// ReadFinished marks the file read as done
func (s *Session) ReadFinished() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Clear resets the file input
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Close resets the session when the dialog is dismissed
func (s *Session) Close() {
	s.Clear()
}

func (s *Session) reset() {
	s.filename = ""
	s.content = ""
	s.onPrem = false
	s.rejected = false
	s.invalidFormat = false
}

// evaluate normalizes once both filename and content are known.
// The last imported blueprint is kept until a new import succeeds.
func (s *Session) evaluate() {
	outcome, ok := s.normalizer.Import(s.filename, s.content)
	if !ok {
		return
	}
	s.outcome = outcome

	switch outcome.Reason {
	case "":
		s.onPrem = outcome.IsOnPrem
		s.blueprint = outcome.State
	case model.ReasonUnrecognizedFormat:
		s.invalidFormat = true
	case model.ReasonInvalidFormat:
		s.invalidFormat = true
		if s.notifier != nil {
			s.notifier.Notify(Notification{
				Variant:     VariantWarning,
				Title:       NotificationText,
				Description: outcome.Message,
			})
		}
	}
}

// HelperText returns the text shown under the file input
func (s *Session) HelperText() (Variant, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant := VariantDefault
	switch {
	case s.rejected:
		variant = VariantError
	case s.onPrem:
		variant = VariantWarning
	}

	switch {
	case s.rejected:
		return variant, TextRejected
	case s.invalidFormat:
		return variant, TextInvalid
	case s.onPrem:
		return variant, TextOnPremBeta
	default:
		return variant, TextDefault
	}
}

// Validated reports whether the file input should be shown in error
func (s *Session) Validated() Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejected || s.invalidFormat {
		return VariantError
	}
	return VariantDefault
}

// CanFinish reports whether "Review and finish" is enabled
func (s *Session) CanFinish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.rejected && !s.invalidFormat && s.content != ""
}

// Blueprint returns the imported wizard state, or nil
func (s *Session) Blueprint() *model.WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blueprint
}

// Outcome returns the last normalization outcome, or nil
func (s *Session) Outcome() *model.ImportOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Loading reports whether a file read is in progress
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsOnPrem reports whether the imported blueprint came from an on-premises file
func (s *Session) IsOnPrem() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onPrem
}
