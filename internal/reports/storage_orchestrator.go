package reports

import (
	"context"
	"fmt"
	"path"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/storage"
)

// StorageOrchestrator stores generated files under their parameter folder
type StorageOrchestrator struct {
	storage storage.StorageClient
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient, log *logger.Logger) *StorageOrchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &StorageOrchestrator{
		storage: client,
		log:     log.WithComponent("storage-orchestrator"),
	}
}

// StoreAllFiles writes every generated file and returns the stored paths
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) ([]string, error) {
	if files == nil || len(files.Files) == 0 {
		return nil, fmt.Errorf("no files to store")
	}

	if err := so.storage.CreateDir(ctx, files.FolderPath); err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", files.FolderPath, err)
	}

	stored := make([]string, 0, len(files.Files))
	for _, name := range files.Names() {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		filePath := path.Join(files.FolderPath, name)
		if err := so.storage.StoreFile(ctx, filePath, files.Files[name]); err != nil {
			return stored, fmt.Errorf("failed to store %s: %w", filePath, err)
		}
		stored = append(stored, filePath)
	}

	so.log.Info("Stored rendered files", logger.Fields{
		"folder": files.FolderPath,
		"files":  len(stored),
	})
	return stored, nil
}
