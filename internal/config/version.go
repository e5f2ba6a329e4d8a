package config

import (
	"os"
	"path/filepath"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns version from environment variable or the VERSION file
func GetVersion() string {
	// Set by CI/CD
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}
	return getBaseVersion()
}

// getBaseVersion reads the base version from a VERSION file next to the
// working directory or one level up (when run from cmd/...)
func getBaseVersion() string {
	for _, versionPath := range []string{"VERSION", filepath.Join("..", "VERSION"), filepath.Join("..", "..", "VERSION")} {
		if content, err := os.ReadFile(versionPath); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return fallbackVersion
}
