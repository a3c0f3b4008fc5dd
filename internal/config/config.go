package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/skybi/chainkv/internal/hashmap"
)

// Config represents the application configuration structure
type Config struct {
	Environment   string `default:"prod"`
	ListenAddress string `split_words:"true" default:":8081"`

	DefaultInitialCapacity int     `split_words:"true" default:"16"`
	DefaultLoadFactor      float64 `split_words:"true" default:"0.75"`

	// EntryLifetime makes keyspace entries expire after the given duration; 0 disables expiration
	EntryLifetime   time.Duration `split_words:"true" default:"0"`
	CleanupInterval time.Duration `split_words:"true" default:"10s"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("ckv", config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configured keyspace defaults
func (cfg *Config) Validate() error {
	if err := cfg.MapOptions().Validate(); err != nil {
		return fmt.Errorf("invalid keyspace defaults: %w", err)
	}
	if cfg.EntryLifetime < 0 {
		return fmt.Errorf("the entry lifetime must not be negative (got %s)", cfg.EntryLifetime)
	}
	if cfg.EntryLifetime > 0 && cfg.CleanupInterval <= 0 {
		return fmt.Errorf("the cleanup interval has to be positive (got %s)", cfg.CleanupInterval)
	}
	return nil
}

// IsEnvProduction returns whether the application runs in production mode
func (cfg *Config) IsEnvProduction() bool {
	return strings.ToLower(cfg.Environment) == "prod"
}

// MapOptions returns the map options keyspaces are created with if the client does not specify them
func (cfg *Config) MapOptions() *hashmap.Options {
	return &hashmap.Options{
		InitialCapacity:     cfg.DefaultInitialCapacity,
		LoadFactorThreshold: cfg.DefaultLoadFactor,
	}
}
