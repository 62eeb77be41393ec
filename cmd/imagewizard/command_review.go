package main

import (
	"fmt"

	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/sourceplane/imagewizard/internal/review"
	"github.com/spf13/cobra"
)

var (
	reviewContextFile string
	reviewFormat      string
)

var reviewCmd = &cobra.Command{
	Use:   "review <state-file>",
	Short: "Show the review summary of a wizard state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showReview(args[0])
	},
}

func registerReviewCommand(root *cobra.Command) {
	root.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVar(&reviewContextFile, "context", "", "Review context file (sources, OpenSCAP profile, org ID)")
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "table", "Output format (table, json or yaml)")
}

func showReview(path string) error {
	state, err := loader.LoadState(path)
	if err != nil {
		return err
	}
	ctx, err := loader.LoadReviewContext(reviewContextFile)
	if err != nil {
		return err
	}

	sections := review.Build(state, ctx)
	if reviewFormat == "table" {
		fmt.Print(render.ReviewText(sections))
		return nil
	}

	data, err := render.NewRenderer().Render(sections, reviewFormat)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
