// Package config provides configuration management for the leapdoi CLI.
//
// It embeds the report settings from internal/config and adds the fields
// that only matter to the command line and the HTTP server.
package config

import (
	"path/filepath"
	"time"

	intconfig "github.com/leapstack-labs/leapdoi/internal/config"
)

// Settings is an alias for the shared report settings.
type Settings = intconfig.Settings

// Style is an alias for the shared spreadsheet style.
type Style = intconfig.Style

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr        string `koanf:"addr" yaml:"addr"`
	MaxUploadMB int    `koanf:"max_upload_mb" yaml:"max_upload_mb"`
	// ShutdownTimeout bounds graceful shutdown after a signal
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            DefaultServerAddr,
		MaxUploadMB:     DefaultMaxUploadMB,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// MaxUploadBytes returns the upload cap in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Config holds all CLI configuration options.
type Config struct {
	Settings     `koanf:",squash" yaml:",inline"`
	OutputDir    string       `koanf:"output_dir" yaml:"output_dir"`
	Verbose      bool         `koanf:"verbose" yaml:"verbose"`
	OutputFormat string       `koanf:"output" yaml:"output"`
	Server       ServerConfig  `koanf:"server" yaml:"server"`
	History      HistoryConfig `koanf:"history" yaml:"history"`
}

// HistoryConfig controls the run history kept next to generated reports.
type HistoryConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	// Path overrides the per-directory database location
	Path string `koanf:"path" yaml:"path,omitempty"`
}

// HistoryPath returns the history database for reports written to dir.
func (h HistoryConfig) HistoryPath(dir string) string {
	if h.Path != "" {
		return h.Path
	}
	return filepath.Join(dir, DefaultHistoryDir, DefaultHistoryFile)
}

// Default configuration values.
const (
	DefaultOutputDir       = "."
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServerAddr      = "127.0.0.1:8080"
	DefaultMaxUploadMB     = 32
	DefaultShutdownTimeout = 10 * time.Second
	DefaultHistoryDir      = ".leapdoi"
	DefaultHistoryFile     = "history.db"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Settings:     *intconfig.DefaultSettings(),
		OutputDir:    DefaultOutputDir,
		OutputFormat: DefaultOutput,
		Server:       DefaultServerConfig(),
		History:      HistoryConfig{Enabled: true},
	}
}
