package storage

import (
	"context"
	"fmt"

	"mosjcharts/internal/config"
	"mosjcharts/internal/logger"
)

// StorageMode selects where rendered outputs are written
type StorageMode string

const (
	StorageLocal StorageMode = "local"
	StorageGCS   StorageMode = "gcs"
)

// NewStorageClient creates a storage client based on the configured storage mode
func NewStorageClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (StorageClient, error) {
	switch StorageMode(cfg.StorageMode) {
	case StorageLocal:
		outputDir := cfg.LocalOutputDir
		if outputDir == "" {
			outputDir = "rendered"
		}

		localClient, err := NewLocalStorageClient(outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case StorageGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
}
