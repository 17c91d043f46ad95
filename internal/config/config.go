// Package config provides configuration management for the compiler driver.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"modelica-dae/internal/logging"
)

// Config is the main application configuration.
type Config struct {
	// Version is the configuration version.
	Version string `json:"version"`

	// Output contains output configuration.
	Output OutputConfig `json:"output"`

	// Cache contains compiled-artifact cache configuration.
	Cache CacheConfig `json:"cache"`

	// Logging contains logging configuration.
	Logging logging.Config `json:"logging"`

	// Store contains the optional Postgres artifact store configuration.
	Store StoreConfig `json:"store"`
}

// OutputConfig contains output-related settings.
type OutputConfig struct {
	// Format is the default serialization format for compiler artifacts (json).
	Format string `json:"format"`

	// Indent pretty-prints JSON output when true.
	Indent bool `json:"indent"`
}

// CacheConfig contains local cache-related settings.
type CacheConfig struct {
	// Enabled is loaded but not read by modc; the compiled-artifact cache
	// is the Postgres store, switched on by StoreConfig.Enabled.
	Enabled bool `json:"enabled"`

	// Directory is loaded but not read by modc; there is no file-backed
	// cache.
	Directory string `json:"directory"`
}

// StoreConfig configures the optional Postgres artifact store (adapters/store).
type StoreConfig struct {
	// Enabled turns on persisting compiled Dae artifacts to Postgres.
	Enabled bool `json:"enabled"`

	// DSN is the libpq connection string.
	DSN string `json:"dsn,omitempty"`
}

// Default returns a default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	cacheDir := filepath.Join(homeDir, ".modc", "cache")

	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			Format: "json",
			Indent: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Directory: cacheDir,
		},
		Logging: logging.DefaultConfig(),
		Store: StoreConfig{
			Enabled: false,
		},
	}
}

// Load loads configuration from a JSON file, falling back to Default if the
// file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance.
var globalConfig = Default()

// Get returns the global configuration.
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration.
func Set(cfg *Config) {
	globalConfig = cfg
}
