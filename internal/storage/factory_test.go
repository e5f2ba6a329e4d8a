package storage

import (
	"context"
	"path/filepath"
	"testing"

	"mosjcharts/internal/config"
	"mosjcharts/internal/logger"
)

func TestNewStorageClient_Local(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{StorageMode: "local", LocalOutputDir: root}

	client, err := NewStorageClient(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer client.Close()

	local, ok := client.(*LocalStorageClient)
	if !ok {
		t.Fatalf("Expected *LocalStorageClient, got %T", client)
	}
	if local.rootDir != root {
		t.Errorf("Expected rootDir '%s', got '%s'", root, local.rootDir)
	}
}

func TestNewStorageClient_UnsupportedMode(t *testing.T) {
	cfg := &config.Config{StorageMode: "s3"}

	client, err := NewStorageClient(context.Background(), cfg, logger.Nop())
	if err == nil {
		client.Close()
		t.Fatal("Expected error for unsupported storage mode, got nil")
	}
}

func TestNewGCSClient_RequiresBucket(t *testing.T) {
	if _, err := NewGCSClient(context.Background(), "", nil); err == nil {
		t.Error("Expected error for empty bucket name, got nil")
	}
}
