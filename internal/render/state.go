package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/imagewizard/internal/model"
	"gopkg.in/yaml.v3"
)

// Renderer serializes wizard state
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON renders v as indented JSON
func (r *Renderer) RenderJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// RenderYAML renders v as YAML
func (r *Renderer) RenderYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// Render picks JSON or YAML from format ("json", "yaml", "yml")
func (r *Renderer) Render(v interface{}, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return r.RenderYAML(v)
	case "json", "":
		return r.RenderJSON(v)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteState writes state to file (JSON or YAML based on extension)
func (r *Renderer) WriteState(state *model.WizardState, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var data []byte
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(state)
	default:
		data, err = r.RenderJSON(state)
	}
	if err != nil {
		return fmt.Errorf("failed to render wizard state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write wizard state to %s: %w", path, err)
	}
	return nil
}

// DebugDump outputs a short summary of the wizard state
func (r *Renderer) DebugDump(state *model.WizardState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blueprint: %s (%s)\n", state.Details.BlueprintName, state.Details.BlueprintDescription)
	fmt.Fprintf(&sb, "  Mode: %s\n", state.Mode)
	fmt.Fprintf(&sb, "  Distribution: %s\n", state.Distribution)
	fmt.Fprintf(&sb, "  Architecture: %s\n", state.Architecture)
	fmt.Fprintf(&sb, "  Image types: %v\n", state.ImageTypes)
	fmt.Fprintf(&sb, "  Packages: %d\n", len(state.Packages))
	fmt.Fprintf(&sb, "  Users: %d\n", len(state.Users))
	fmt.Fprintf(&sb, "  File system: %s (%d partitions)\n", state.FileSystem.Mode, len(state.FileSystem.Partitions))
	fmt.Fprintf(&sb, "  Registration: %s\n", state.Registration.Type)
	fmt.Fprintf(&sb, "  On-premises: %v\n", state.Metadata.IsOnPrem)
	return sb.String()
}
