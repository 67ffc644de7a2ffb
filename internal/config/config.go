// Package config provides centralized configuration for convertero.
// Values start from Default, are overlaid by an optional YAML file, then by
// CONVERTERO_* environment variables, and are validated before use.
package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "convertero.yaml"

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
	Output  OutputConfig  `yaml:"output"`
	Convert ConvertConfig `yaml:"convert"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `yaml:"level" env:"CONVERTERO_LOG_LEVEL"`

	// Format is the output format: text or json
	Format string `yaml:"format" env:"CONVERTERO_LOG_FORMAT"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"CONVERTERO_ADDR"`
	MaxUploadMB    int           `yaml:"max_upload_mb" env:"CONVERTERO_MAX_UPLOAD_MB"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"CONVERTERO_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"CONVERTERO_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CONVERTERO_REQUEST_TIMEOUT"`
}

// HistoryConfig controls the SQLite job log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"CONVERTERO_HISTORY"`
	Path    string `yaml:"path" env:"CONVERTERO_HISTORY_PATH"`
}

// OutputConfig holds defaults for written files.
type OutputConfig struct {
	Dir    string `yaml:"dir" env:"CONVERTERO_OUTPUT_DIR"`
	Format string `yaml:"format" env:"CONVERTERO_FORMAT"`
}

// ConvertConfig holds conversion options.
type ConvertConfig struct {
	// IncludeDescription keeps descriptions without an attribute table
	// as a plain-text Description column.
	IncludeDescription bool `yaml:"include_description" env:"CONVERTERO_INCLUDE_DESCRIPTION"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadMB:    64,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 60 * time.Second,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "convertero.db",
		},
		Output: OutputConfig{
			Format: "csv",
		},
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.Server.MaxUploadMB) << 20 }

// Validate checks that values are sane.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unsupported value %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (use text or json)", c.Log.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "csv", "json", "markdown", "md", "pdf":
	default:
		return fmt.Errorf("output.format: unsupported value %q", c.Output.Format)
	}
	return nil
}
