// Package config loads the application configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/socratesai/socrates/internal/maturity"
)

// Config holds application-level configuration
type Config struct {
	// DBPath is the SQLite database file path
	// Default: .socrates/socrates.db
	DBPath string `yaml:"db_path"`

	// Model overrides the default LLM model
	Model string `yaml:"model"`

	// Actor is the default author recorded on notes and dialogue turns
	// Default: "user"
	Actor string `yaml:"actor"`

	// LogLevel sets the zap level: debug, info, warn, error
	// Default: info
	LogLevel string `yaml:"log_level"`

	// Scoring holds the maturity scoring constants
	Scoring *maturity.Config `yaml:"scoring"`
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		DBPath:   ".socrates/socrates.db",
		Actor:    "user",
		LogLevel: "info",
		Scoring:  maturity.DefaultConfig(),
	}
}

// Validate checks the configuration invariants
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.Scoring == nil {
		return fmt.Errorf("scoring config is required")
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	return nil
}

// Load reads configuration from a yaml file, falling back to defaults when
// the file does not exist. Fields omitted from the file keep defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Scoring == nil {
		cfg.Scoring = maturity.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
