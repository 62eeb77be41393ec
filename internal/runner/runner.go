package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/normalize"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/source"
	"go.uber.org/zap"
)

// Recorder stores import attempts
type Recorder interface {
	Add(ctx context.Context, rec *history.Record) error
}

// Runner imports blueprint files one after another.
type Runner struct {
	Opener      *source.Opener
	Normalizer  *normalize.Normalizer
	History     Recorder
	Renderer    *render.Renderer
	Logger      *logging.Logger
	Stdout      io.Writer
	OutDir      string
	Format      string
	MaxFileSize int64
	DryRun      bool
}

// Result is the outcome of importing one location
type Result struct {
	Location string               `json:"location"`
	Outcome  *model.ImportOutcome `json:"outcome"`
	Output   string               `json:"output,omitempty"`
	RecordID string               `json:"record_id,omitempty"`
}

// NewRunner creates a runner with defaults for every optional collaborator
func NewRunner(opener *source.Opener, normalizer *normalize.Normalizer, stdout io.Writer) *Runner {
	if opener == nil {
		opener = source.NewOpener(nil, nil)
	}
	if normalizer == nil {
		normalizer = normalize.NewNormalizer(nil)
	}
	return &Runner{
		Opener:      opener,
		Normalizer:  normalizer,
		Renderer:    render.NewRenderer(),
		Logger:      logging.NewNop(),
		Stdout:      stdout,
		Format:      "json",
		MaxFileSize: loader.MaxImportFileSize,
	}
}

// Resolve expands arguments into import locations. s3:// prefixes ending in
// "/" are listed; local arguments go through loader.ExpandInputs.
func (r *Runner) Resolve(ctx context.Context, args []string) ([]string, error) {
	var locations, local []string
	for _, arg := range args {
		switch {
		case source.IsRemote(arg) && strings.HasSuffix(arg, "/"):
			uris, err := r.Opener.List(ctx, arg)
			if err != nil {
				return nil, err
			}
			locations = append(locations, uris...)
		case source.IsRemote(arg):
			locations = append(locations, arg)
		default:
			local = append(local, arg)
		}
	}
	if len(local) > 0 {
		paths, err := loader.ExpandInputs(local)
		if err != nil {
			return nil, err
		}
		locations = append(locations, paths...)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no import files found")
	}
	return locations, nil
}

// Run imports every location. Failed imports are reported in the results;
// the error is only set for problems outside a single import, such as a
// cancelled context or an unwritable output directory.
func (r *Runner) Run(ctx context.Context, locations []string) ([]Result, error) {
	results := make([]Result, 0, len(locations))
	used := make(map[string]bool)
	for _, location := range locations {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		fmt.Fprintf(r.Stdout, "→ Import %s\n", location)
		res, err := r.importOne(ctx, location, used)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if res.Outcome.Succeeded() {
			kind := "hosted"
			if res.Outcome.IsOnPrem {
				kind = "on-premises"
			}
			fmt.Fprintf(r.Stdout, "  ✓ %s blueprint %q\n", kind, res.Outcome.State.Details.BlueprintName)
			if res.Output != "" {
				fmt.Fprintf(r.Stdout, "    wrote %s\n", res.Output)
			}
		} else {
			fmt.Fprintf(r.Stdout, "  ✗ %s: %s\n", res.Outcome.Reason, res.Outcome.Message)
		}
	}
	return results, nil
}

func (r *Runner) importOne(ctx context.Context, location string, used map[string]bool) (Result, error) {
	res := Result{Location: location}
	name := filepath.Base(location)

	raw, err := r.read(ctx, location)
	switch {
	case errors.Is(err, model.ErrRejectedFile):
		res.Outcome = model.Failure(model.ReasonRejectedFile, err.Error())
	case err != nil:
		res.Outcome = model.Failure(model.ReasonInvalidFormat, err.Error())
	default:
		outcome, ok := r.Normalizer.Import(raw.Filename, raw.Content)
		if !ok {
			outcome = model.Failure(model.ReasonInvalidFormat, "file is empty")
		}
		res.Outcome = outcome
	}

	r.Logger.Info("import finished",
		zap.String("location", location),
		zap.Bool("success", res.Outcome.Succeeded()),
		zap.String("reason", string(res.Outcome.Reason)),
		zap.Bool("on_prem", res.Outcome.IsOnPrem))

	if r.DryRun {
		return res, nil
	}

	if r.History != nil {
		rec, err := history.NewRecord(name, normalize.DetectFormat(name), res.Outcome)
		if err != nil {
			return res, err
		}
		if err := r.History.Add(ctx, rec); err != nil {
			return res, fmt.Errorf("failed to record import of %s: %w", location, err)
		}
		res.RecordID = rec.ID
	}

	if r.OutDir != "" && res.Outcome.Succeeded() {
		out := r.outputPath(name, used)
		if err := r.Renderer.WriteState(res.Outcome.State, out); err != nil {
			return res, err
		}
		res.Output = out
	}

	return res, nil
}

// outputPath picks a file in OutDir not yet written in this batch:
// bp.json, then bp.toml.json, then bp-2.json, bp-3.json, ...
func (r *Runner) outputPath(name string, used map[string]bool) string {
	ext := ".json"
	if r.Format == "yaml" {
		ext = ".yaml"
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	for _, candidate := range []string{stem + ext, name + ext} {
		out := filepath.Join(r.OutDir, candidate)
		if !used[out] {
			used[out] = true
			return out
		}
	}
	for i := 2; ; i++ {
		out := filepath.Join(r.OutDir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if !used[out] {
			used[out] = true
			return out
		}
	}
}

func (r *Runner) read(ctx context.Context, location string) (*model.RawImportFile, error) {
	rc, err := r.Opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return loader.ReadImportFile(rc, location, r.MaxFileSize)
}

// Failed counts unsuccessful imports
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if !res.Outcome.Succeeded() {
			n++
		}
	}
	return n
}
