package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/normalize"
	"github.com/sourceplane/imagewizard/internal/schema"
	"github.com/sourceplane/imagewizard/internal/source"
)

func newValidator() (*schema.Validator, error) {
	if appConfig.SchemaPath == "" {
		return schema.NewValidator()
	}
	return schema.NewValidatorFromFile(appConfig.SchemaPath)
}

func newNormalizer() (*normalize.Normalizer, error) {
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	return normalize.NewNormalizer(v), nil
}

// openHistory returns nil when history is disabled
func openHistory() (*history.Store, error) {
	if !appConfig.HistoryEnabled {
		return nil, nil
	}
	if dir := filepath.Dir(appConfig.HistoryDB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}
	return history.Open(appConfig.HistoryDB, logger.Named("history"))
}

// newOpener creates an S3 client only when a location needs one
func newOpener(ctx context.Context, locations []string) (*source.Opener, error) {
	var client source.S3API
	for _, loc := range locations {
		if source.IsRemote(loc) {
			c, err := source.NewS3Client(ctx, appConfig.S3Region, appConfig.S3Anonymous)
			if err != nil {
				return nil, err
			}
			client = c
			break
		}
	}
	return source.NewOpener(client, logger.Named("source")).WithMaxSize(appConfig.MaxFileSize), nil
}
