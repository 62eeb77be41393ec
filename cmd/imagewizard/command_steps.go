package main

import (
	"fmt"

	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/steps"
	"github.com/spf13/cobra"
)

var (
	stepsChain   []string
	stepsInvalid []string
)

var stepsCmd = &cobra.Command{
	Use:   "steps [state-file]",
	Short: "Show which wizard steps are locked",
	Long: `Compute step navigation for a wizard state, or for an arbitrary chain:

  imagewizard steps --chain a,b,c,d,e --invalid c`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSteps(args)
	},
}

func registerStepsCommand(root *cobra.Command) {
	root.AddCommand(stepsCmd)

	stepsCmd.Flags().StringSliceVar(&stepsChain, "chain", nil, "Step IDs in order, instead of a state file")
	stepsCmd.Flags().StringSliceVar(&stepsInvalid, "invalid", nil, "Step IDs from --chain whose data is invalid")
}

func showSteps(args []string) error {
	var list []steps.Step
	switch {
	case len(args) == 1:
		state, err := loader.LoadState(args[0])
		if err != nil {
			return err
		}
		list = steps.WizardSteps(state.FileSystemStatus())
	case len(stepsChain) > 0:
		invalid := make(map[string]bool, len(stepsInvalid))
		for _, id := range stepsInvalid {
			invalid[id] = true
		}
		for _, id := range stepsChain {
			list = append(list, steps.Step{ID: steps.StepID(id), Invalid: invalid[id]})
		}
	default:
		return fmt.Errorf("a state file or --chain is required")
	}

	result := steps.Compute(list)
	fmt.Print(render.StepsText(list, result))
	if id, ok := steps.FirstBlocked(list, result); ok {
		fmt.Printf("□ Blocked at %s\n", id)
		return nil
	}
	fmt.Println("✓ All steps reachable")
	return nil
}
