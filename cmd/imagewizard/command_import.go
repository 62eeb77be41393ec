package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sourceplane/imagewizard/internal/git"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/runner"
	"github.com/sourceplane/imagewizard/internal/source"
	"github.com/spf13/cobra"
)

var (
	importOutDir string
	importDryRun bool
	importPrint  bool
	changedOnly  bool
	baseBranch   string
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir|glob|s3://bucket/key>...",
	Short: "Normalize blueprint files into wizard state",
	Long: `Import hosted (JSON export) and on-premises (TOML or JSON) blueprints.
Directories are scanned for .json and .toml files; a trailing /** recurses.
s3:// locations ending in / are listed as prefixes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args)
	},
}

func registerImportCommand(root *cobra.Command) {
	root.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importOutDir, "out-dir", "d", "", "Write each imported wizard state to this directory")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Normalize without recording history or writing files")
	importCmd.Flags().BoolVarP(&importPrint, "print", "p", false, "Print each imported wizard state")
	importCmd.Flags().BoolVar(&changedOnly, "changed", false, "Only import local files changed in git")
	importCmd.Flags().StringVar(&baseBranch, "base-branch", "main", "Base branch for --changed")
}

func runImport(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opener, err := newOpener(ctx, args)
	if err != nil {
		return err
	}
	normalizer, err := newNormalizer()
	if err != nil {
		return err
	}

	r := runner.NewRunner(opener, normalizer, os.Stdout)
	r.Logger = logger.Named("runner")
	r.OutDir = importOutDir
	r.Format = appConfig.OutputFormat
	r.MaxFileSize = appConfig.MaxFileSize
	r.DryRun = importDryRun

	if importDryRun {
		fmt.Println("□ Dry-run mode enabled. Nothing is recorded or written.")
	} else {
		store, err := openHistory()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			r.History = store
		}
	}

	if importOutDir != "" && !importDryRun {
		if err := os.MkdirAll(importOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", importOutDir, err)
		}
	}

	fmt.Println("□ Resolving import files...")
	locations, err := r.Resolve(ctx, args)
	if err != nil {
		return err
	}

	if changedOnly {
		locations, err = filterChanged(ctx, locations)
		if err != nil {
			return err
		}
		if len(locations) == 0 {
			fmt.Println("✓ No changed blueprints")
			return nil
		}
	}

	results, err := r.Run(ctx, locations)
	if err != nil {
		return err
	}

	if importPrint {
		renderer := render.NewRenderer()
		for _, res := range results {
			if !res.Outcome.Succeeded() {
				continue
			}
			data, err := renderer.Render(res.Outcome.State, appConfig.OutputFormat)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		}
	}

	if failed := runner.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(results))
	}
	fmt.Printf("✓ Imported %d blueprint(s)\n", len(results))
	return nil
}

// filterChanged drops unchanged local files; s3:// locations are kept
func filterChanged(ctx context.Context, locations []string) ([]string, error) {
	var local, remote []string
	for _, loc := range locations {
		if source.IsRemote(loc) {
			remote = append(remote, loc)
		} else {
			local = append(local, loc)
		}
	}

	fmt.Printf("□ Filtering files changed since %s...\n", baseBranch)
	changed, err := git.NewChangeDetector(baseBranch).FilterChanged(ctx, local)
	if err != nil {
		return nil, err
	}
	return append(changed, remote...), nil
}
