package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/schema"
)

// Normalizer turns uploaded blueprint files into wizard state
type Normalizer struct {
	validator *schema.Validator
}

// NewNormalizer creates a normalizer using v for the hosted shape check.
// A nil validator uses the built-in hosted export schema.
func NewNormalizer(v *schema.Validator) *Normalizer {
	if v == nil {
		v = defaultValidator()
	}
	return &Normalizer{validator: v}
}

var (
	defaultOnce sync.Once
	defaultV    *schema.Validator
)

func defaultValidator() *schema.Validator {
	defaultOnce.Do(func() {
		defaultV = schema.MustNewValidator()
	})
	return defaultV
}

// Import normalizes a file with the built-in schema. See Normalizer.Import.
func Import(filename, content string) (*model.ImportOutcome, bool) {
	return NewNormalizer(nil).Import(filename, content)
}

// DetectFormat derives the source format from the filename suffix only
func DetectFormat(filename string) model.SourceFormat {
	switch {
	case strings.HasSuffix(filename, ".toml"):
		return model.FormatTOML
	case strings.HasSuffix(filename, ".json"):
		return model.FormatJSON
	default:
		return model.FormatUnknown
	}
}

// Import normalizes one uploaded file. The second result is false when
// filename or content is empty and nothing was attempted.
func (n *Normalizer) Import(filename, content string) (*model.ImportOutcome, bool) {
	if filename == "" || content == "" {
		return nil, false
	}

	switch DetectFormat(filename) {
	case model.FormatTOML:
		return n.importTOML(content), true
	case model.FormatJSON:
		return n.importJSON(content), true
	default:
		return model.Failure(model.ReasonUnrecognizedFormat, model.ErrUnrecognizedFormat.Error()), true
	}
}

func (n *Normalizer) importTOML(content string) *model.ImportOutcome {
	var doc map[string]interface{}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return invalid(fmt.Errorf("failed to parse TOML: %w", err))
	}
	return fromOnPrem(doc)
}

func (n *Normalizer) importJSON(content string) *model.ImportOutcome {
	var doc interface{}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return invalid(fmt.Errorf("failed to parse JSON: %w", err))
	}

	if n.validator.IsHosted(doc) {
		if state, ok := fromHosted(content); ok {
			return model.Success(state, false)
		}
	}
	return fromOnPrem(doc)
}

// fromHosted maps a document that passed the structural check. It reports
// false when the fields or image requests cannot be mapped, so the caller
// can treat the document as on-premises instead.
func fromHosted(content string) (*model.WizardState, bool) {
	var export model.BlueprintExport
	if err := json.Unmarshal([]byte(content), &export); err != nil {
		return nil, false
	}
	state, err := MapExportToState(&export, export.ImageRequests)
	if err != nil {
		return nil, false
	}
	return state, true
}

func fromOnPrem(doc interface{}) *model.ImportOutcome {
	export, err := MapOnPremToHosted(doc)
	if err != nil {
		return invalid(err)
	}
	state, err := MapExportToState(export, nil)
	if err != nil {
		return invalid(err)
	}
	return model.Success(state, true)
}

func invalid(err error) *model.ImportOutcome {
	return model.Failure(model.ReasonInvalidFormat, err.Error())
}
