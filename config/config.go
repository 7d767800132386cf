// Package config loads the optional sweep configuration file. CLI flags
// override file values; the engine itself only ever sees an explicit
// immutable options value.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/raivaus/types"
)

// Config represents the sweep configuration.
type Config struct {
	Version      string                `yaml:"version"`
	Provider     string                `yaml:"provider"`
	Regions      []string              `yaml:"regions,omitempty"`
	Protect      *types.ProtectionRule `yaml:"protect,omitempty"`
	ExcludeKinds []string              `yaml:"exclude_kinds,omitempty"`
	WaitTimeout  time.Duration         `yaml:"wait_timeout,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Version:  "1",
		Provider: "aws",
	}
}

// LoadConfig loads configuration from file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate ensures config has required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Protect != nil && c.Protect.Key == "" {
		return fmt.Errorf("protect rule requires a key")
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout cannot be negative")
	}
	return nil
}
