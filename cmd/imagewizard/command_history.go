package main

import (
	"context"
	"fmt"

	"github.com/sourceplane/imagewizard/internal/render"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recorded imports, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory(cmd.Context(), args)
	},
}

func registerHistoryCommand(root *cobra.Command) {
	root.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of imports to list")
}

func showHistory(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("import history is disabled")
	}
	defer store.Close()

	if len(args) == 0 {
		records, err := store.List(ctx, historyLimit)
		if err != nil {
			return err
		}
		fmt.Print(render.HistoryText(records))
		return nil
	}

	rec, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	data, err := render.NewRenderer().Render(rec, appConfig.OutputFormat)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
