// Package config loads principia configuration from an optional
// .principia.yaml file, with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all principia configuration.
type Config struct {
	// Directories searched by include forms, after the including file's own
	// directory.
	IncludePaths []string `yaml:"include_paths"`

	// Reporting controls console output.
	Reporting ReportingConfig `yaml:"reporting"`

	// Logging controls diagnostic logs.
	Logging LoggingConfig `yaml:"logging"`
}

// ReportingConfig configures console acknowledgments.
type ReportingConfig struct {
	Color bool `yaml:"color"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"` // master toggle; false = no diagnostics
	Categories map[string]bool `yaml:"categories"` // per-category toggles
}

// IsCategoryEnabled returns whether diagnostics are enabled for a
// category. False when debug_mode is off; categories default to enabled
// when unspecified.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Reporting: ReportingConfig{Color: true},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// FileName is the config file looked up in the working directory.
const FileName = ".principia.yaml"

// Load reads configuration from dir. A missing file yields the defaults;
// a malformed one is an error.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file, so CI runs
// can disable color or raise log levels without editing configs.
func applyEnvOverrides(cfg *Config) {
	if os.Getenv("NO_COLOR") != "" {
		cfg.Reporting.Color = false
	}
	if v := os.Getenv("PRINCIPIA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PRINCIPIA_DEBUG"); v == "1" || v == "true" {
		cfg.Logging.DebugMode = true
	}
}
