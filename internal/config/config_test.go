package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*Config)
	}{
		{
			name:        "defaults",
			envVars:     map[string]string{},
			expectError: false,
			validate: func(cfg *Config) {
				if cfg.Port != "8981" {
					t.Errorf("Expected default Port to be '8981', got '%s'", cfg.Port)
				}
				if cfg.APIBaseURL != "https://api.npolar.no/indicator" {
					t.Errorf("Expected default APIBaseURL, got '%s'", cfg.APIBaseURL)
				}
				if cfg.FetchTimeout != 30*time.Second {
					t.Errorf("Expected default FetchTimeout 30s, got %v", cfg.FetchTimeout)
				}
				if cfg.FetchRetries != 3 {
					t.Errorf("Expected default FetchRetries 3, got %d", cfg.FetchRetries)
				}
				if cfg.DefaultLocale != "en" {
					t.Errorf("Expected default DefaultLocale 'en', got '%s'", cfg.DefaultLocale)
				}
				if cfg.StorageMode != "local" {
					t.Errorf("Expected default StorageMode 'local', got '%s'", cfg.StorageMode)
				}
				if cfg.LocalOutputDir != "./rendered" {
					t.Errorf("Expected default LocalOutputDir './rendered', got '%s'", cfg.LocalOutputDir)
				}
				if cfg.Environment != "development" {
					t.Errorf("Expected default Environment 'development', got '%s'", cfg.Environment)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
				}
				if cfg.LogFormat != "json" {
					t.Errorf("Expected default LogFormat 'json', got '%s'", cfg.LogFormat)
				}
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":             "9000",
				"MOSJ_API_URL":     "http://localhost:9999/indicator",
				"FETCH_TIMEOUT":    "5s",
				"FETCH_RETRIES":    "0",
				"DEFAULT_LOCALE":   "nb",
				"STORAGE_MODE":     "gcs",
				"GCS_BUCKET":       "mosj-rendered",
				"ENVIRONMENT":      "production",
				"LOG_LEVEL":        "debug",
				"LOG_FORMAT":       "text",
				"LOCAL_OUTPUT_DIR": "/tmp/out",
			},
			expectError: false,
			validate: func(cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
				}
				if cfg.APIBaseURL != "http://localhost:9999/indicator" {
					t.Errorf("Expected custom APIBaseURL, got '%s'", cfg.APIBaseURL)
				}
				if cfg.FetchTimeout != 5*time.Second {
					t.Errorf("Expected FetchTimeout 5s, got %v", cfg.FetchTimeout)
				}
				if cfg.FetchRetries != 0 {
					t.Errorf("Expected FetchRetries 0, got %d", cfg.FetchRetries)
				}
				if cfg.DefaultLocale != "nb" {
					t.Errorf("Expected DefaultLocale 'nb', got '%s'", cfg.DefaultLocale)
				}
				if cfg.GCSBucket != "mosj-rendered" {
					t.Errorf("Expected GCSBucket 'mosj-rendered', got '%s'", cfg.GCSBucket)
				}
				if cfg.LocalOutputDir != "/tmp/out" {
					t.Errorf("Expected LocalOutputDir '/tmp/out', got '%s'", cfg.LocalOutputDir)
				}
			},
		},
		{
			name:        "gcs mode without bucket",
			envVars:     map[string]string{"STORAGE_MODE": "gcs"},
			expectError: true,
		},
		{
			name:        "unknown storage mode",
			envVars:     map[string]string{"STORAGE_MODE": "s3"},
			expectError: true,
		},
		{
			name:        "invalid api url",
			envVars:     map[string]string{"MOSJ_API_URL": "not a url"},
			expectError: true,
		},
		{
			name:        "invalid log level",
			envVars:     map[string]string{"LOG_LEVEL": "verbose"},
			expectError: true,
		},
		{
			name:        "invalid retry count",
			envVars:     map[string]string{"FETCH_RETRIES": "not-a-number"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(context.Background())

			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
				return
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
				return
			}
			if !tt.expectError && tt.validate != nil {
				tt.validate(cfg)
			}
		})
	}
}

func TestValidateDirectStruct(t *testing.T) {
	cfg := &Config{
		Port:          "8981",
		APIBaseURL:    "https://api.npolar.no/indicator",
		FetchTimeout:  time.Second,
		DefaultLocale: "en",
		StorageMode:   "local",
		LogLevel:      "info",
		LogFormat:     "json",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}

	cfg.FetchTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected zero FetchTimeout to be rejected")
	}
}

// clearEnv blanks every variable Load reads, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PORT", "MOSJ_API_URL", "FETCH_TIMEOUT", "FETCH_RETRIES", "DEFAULT_LOCALE",
		"STORAGE_MODE", "LOCAL_OUTPUT_DIR", "GCS_BUCKET", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, env := range envVars {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}
