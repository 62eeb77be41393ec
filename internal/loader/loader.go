package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/review"
	"gopkg.in/yaml.v3"
)

// MaxImportFileSize is the largest accepted import file, in bytes
const MaxImportFileSize = 25000

// ReadImportFile reads an uploaded file of at most limit bytes.
// Larger files are rejected with model.ErrRejectedFile.
func ReadImportFile(r io.Reader, name string, limit int64) (*model.RawImportFile, error) {
	if limit <= 0 {
		limit = MaxImportFileSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read import file %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", model.ErrRejectedFile, name, limit)
	}

	return &model.RawImportFile{Filename: filepath.Base(name), Content: string(data)}, nil
}

// LoadImportFile reads a local import file
func LoadImportFile(path string, limit int64) (*model.RawImportFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return ReadImportFile(f, path, limit)
}

// LoadState loads a wizard state saved as JSON or YAML
func LoadState(path string) (*model.WizardState, error) {
	var state model.WizardState
	if err := loadDocument(path, &state); err != nil {
		return nil, fmt.Errorf("failed to load wizard state: %w", err)
	}
	return &state, nil
}

// LoadReviewContext loads externally resolved review data
func LoadReviewContext(path string) (review.Context, error) {
	var ctx review.Context
	if path == "" {
		return ctx, nil
	}
	if err := loadDocument(path, &ctx); err != nil {
		return ctx, fmt.Errorf("failed to load review context: %w", err)
	}
	return ctx, nil
}

func loadDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON %s: %w", path, err)
		}
	}
	return nil
}

// ExpandInputs resolves import arguments into file paths.
// Supports:
//   - a file path, returned as is
//   - a directory, non-recursive: its .json and .toml files
//   - a path with *, via filepath.Glob
//   - a path ending in /**, recursive: every .json and .toml file below it
func ExpandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		found, err := expandInput(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no import files found in %s", strings.Join(args, ", "))
	}
	return paths, nil
}

func expandInput(arg string) ([]string, error) {
	if root, ok := strings.CutSuffix(arg, "/**"); ok {
		var found []string
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isBlueprintFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
		}
		return found, nil
	}

	if strings.Contains(arg, "*") {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate glob pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob pattern %s matched no files", arg)
		}
		sort.Strings(matches)
		return matches, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", arg, err)
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
	}
	var found []string
	for _, entry := range entries {
		if !entry.IsDir() && isBlueprintFile(entry.Name()) {
			found = append(found, filepath.Join(arg, entry.Name()))
		}
	}
	return found, nil
}

func isBlueprintFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".toml")
}
