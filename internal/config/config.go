package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the MOSJ chart rendering service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981" validate:"required,numeric"`

	// MOSJ indicator API
	APIBaseURL   string        `env:"MOSJ_API_URL,default=https://api.npolar.no/indicator" validate:"required,url"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s" validate:"gt=0"`
	FetchRetries int           `env:"FETCH_RETRIES,default=3" validate:"gte=0,lte=10"`

	// Serve parameters from JSON files instead of the API (testing)
	MockDataDir string `env:"MOCK_DATA_DIR"`

	// Rendering
	DefaultLocale string `env:"DEFAULT_LOCALE,default=en" validate:"required,bcp47_language_tag"`

	// Storage for pre-rendered fragments
	StorageMode    string `env:"STORAGE_MODE,default=local" validate:"oneof=local gcs"`
	LocalOutputDir string `env:"LOCAL_OUTPUT_DIR,default=./rendered"`
	GCSBucket      string `env:"GCS_BUCKET" validate:"required_if=StorageMode gcs"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT,default=json" validate:"oneof=json text"`
}

var validate = validator.New()

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
