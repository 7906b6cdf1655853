// Package config provides layered configuration for the mailcheck client.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Config represents the complete client configuration
type Config struct {
	// ServerURL is the backend API base URL (default: http://localhost:5000/api)
	ServerURL string `yaml:"server_url"`
	// StorageDriver selects the local session storage: bolt or sqlite
	StorageDriver string `yaml:"storage_driver"`
	// StoragePath is the local database file
	StoragePath string `yaml:"storage_path"`
	// SessionPassphrase enables sealing the stored token when set
	SessionPassphrase string `yaml:"session_passphrase"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json
	LogFormat string `yaml:"log_format"`
	// RequestTimeout bounds every backend request
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:5000/api",
		StorageDriver:  DriverBolt,
		StoragePath:    defaultStoragePath(),
		LogLevel:       "warn",
		LogFormat:      "text",
		RequestTimeout: 15 * time.Second,
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mailcheck.db"
	}
	return filepath.Join(home, UserConfigDir, "mailcheck.db")
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("server_url is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}

	switch c.StorageDriver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage_driver %q (want %s or %s)", c.StorageDriver, DriverBolt, DriverSQLite)
	}

	if c.StoragePath == "" {
		return errors.New("storage_path is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file on top of defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Merge overrides c with the non-zero fields of other
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.StorageDriver != "" {
		c.StorageDriver = other.StorageDriver
	}
	if other.StoragePath != "" {
		c.StoragePath = other.StoragePath
	}
	if other.SessionPassphrase != "" {
		c.SessionPassphrase = other.SessionPassphrase
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
}

// ParseLevel converts a log_level value to slog.Level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}
