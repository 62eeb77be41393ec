package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourceplane/imagewizard/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import and wizard API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func registerServeCommand(root *cobra.Command) {
	root.AddCommand(serveCmd)

	serveCmd.Flags().String("listen-addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Origins allowed to call the API from a browser")
	bindFlags(serveCmd.Flags())
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	normalizer, err := newNormalizer()
	if err != nil {
		return err
	}

	var hs server.HistoryStore
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		hs = store
	}

	srv := server.New(server.Config{
		Addr:         appConfig.ListenAddr,
		MaxFileSize:  appConfig.MaxFileSize,
		Development:  appConfig.LogDevelopment,
		AllowOrigins: appConfig.CORSOrigins,
	}, normalizer, hs, logger.Named("server"))
	return srv.Run(ctx)
}
