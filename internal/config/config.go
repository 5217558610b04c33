// Package config defines process configuration and its loading hooks.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Serve keeps the read API running after the import finishes.
	Serve bool `koanf:"serve"`

	// DataPath is the badger directory. Empty keeps the store in memory.
	DataPath string `koanf:"data_path"`

	// HealthKitExport is the path to an Apple Health export.xml.
	HealthKitExport string `koanf:"healthkit_export"`

	// LifeCycleDir holds LifeCycle CSV exports.
	LifeCycleDir string `koanf:"lifecycle_dir"`

	// ExportPath receives the collection as JSON; a .zst suffix compresses it.
	ExportPath string `koanf:"export_path"`

	// CompressionLevel is the zstd level (1-4) for stored values and exports.
	CompressionLevel int `koanf:"compression_level"`

	// GCInterval sets how often the badger value log is collected.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		CompressionLevel: 2,
		GCInterval:       5 * time.Minute,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Serve && c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 4 {
		return fmt.Errorf("%w: compression_level must be between 1 and 4, got %d", ErrInvalidConfig, c.CompressionLevel)
	}
	if c.GCInterval <= 0 {
		return fmt.Errorf("%w: gc_interval must be positive, got %s", ErrInvalidConfig, c.GCInterval)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
