package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed hosted_export.schema.yaml
var hostedExportSchema []byte

// Validator checks parsed documents against the hosted export schema
type Validator struct {
	hostedSchema *jsonschema.Schema
}

// NewValidator compiles the built-in hosted export schema
func NewValidator() (*Validator, error) {
	s, err := compileSchema(hostedExportSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile hosted export schema: %w", err)
	}
	return &Validator{hostedSchema: s}, nil
}

// NewValidatorFromFile compiles a hosted export schema from a JSON or YAML file
func NewValidatorFromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := compileSchema(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load hosted export schema %s: %w", path, err)
	}
	return &Validator{hostedSchema: s}, nil
}

// MustNewValidator is NewValidator for package initialization
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateHosted validates a document decoded by encoding/json
func (v *Validator) ValidateHosted(doc interface{}) error {
	if v == nil || v.hostedSchema == nil {
		return fmt.Errorf("hosted export schema not loaded")
	}
	return v.hostedSchema.Validate(doc)
}

// IsHosted reports whether doc has the hosted export shape
func (v *Validator) IsHosted(doc interface{}) bool {
	return v.ValidateHosted(doc) == nil
}

// compileSchema compiles a schema document (JSON or YAML)
func compileSchema(data []byte) (*jsonschema.Schema, error) {
	// Parse YAML to interface{} (supports both YAML and JSON)
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	// Convert to JSON for schema compiler
	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schema, err := jsonschema.CompileString("hosted_export.schema.json", string(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
