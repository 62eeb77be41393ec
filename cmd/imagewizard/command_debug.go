package main

import (
	"encoding/json"
	"fmt"

	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/normalize"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/validators"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Explain how a blueprint file is classified and normalized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return debugImport(args[0])
	},
}

func registerDebugCommand(root *cobra.Command) {
	root.AddCommand(debugCmd)
}

func debugImport(path string) error {
	fmt.Println("□ Reading file...")
	raw, err := loader.LoadImportFile(path, appConfig.MaxFileSize)
	if err != nil {
		return err
	}

	format := normalize.DetectFormat(raw.Filename)
	fmt.Printf("  Format: %s\n", format)

	v, err := newValidator()
	if err != nil {
		return err
	}

	if format == model.FormatJSON {
		var doc interface{}
		if err := json.Unmarshal([]byte(raw.Content), &doc); err == nil {
			if err := v.ValidateHosted(doc); err != nil {
				fmt.Printf("  Hosted schema: ✗ %v\n", err)
			} else {
				fmt.Println("  Hosted schema: ✓")
			}
		}
	}

	fmt.Println("□ Normalizing...")
	outcome, ok := normalize.NewNormalizer(v).Import(raw.Filename, raw.Content)
	if !ok {
		return fmt.Errorf("%s is empty", path)
	}
	if !outcome.Succeeded() {
		return outcome.Err()
	}

	fmt.Print(render.NewRenderer().DebugDump(outcome.State))
	fmt.Print(render.FieldErrorsText(validators.ValidateState(outcome.State)))
	return nil
}
