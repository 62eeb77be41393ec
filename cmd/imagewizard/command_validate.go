package main

import (
	"fmt"

	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/validators"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <state-file>",
	Short: "Validate every field of a wizard state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateState(args[0])
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)
}

func validateState(path string) error {
	fmt.Println("□ Loading wizard state...")
	state, err := loader.LoadState(path)
	if err != nil {
		return err
	}

	fmt.Println("□ Validating fields...")
	errs := validators.ValidateState(state)
	fmt.Print(render.FieldErrorsText(errs))
	if len(errs) > 0 {
		return fmt.Errorf("%d invalid field(s) in %s", len(errs), path)
	}
	return nil
}
