package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	// UserConfigDir is the directory for user-level config, relative to home
	UserConfigDir = ".config/mailcheck"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// DotEnvFile is read from the working directory when present
	DotEnvFile = ".env"
	// EnvPrefix prefixes every environment variable the loader reads
	EnvPrefix = "MAILCHECK_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger     *slog.Logger
	getenv     func(string) string
	homeDir    func() (string, error)
	dotEnvPath string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:     logger,
		getenv:     os.Getenv,
		homeDir:    os.UserHomeDir,
		dotEnvPath: DotEnvFile,
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (path, or ~/.config/mailcheck/config.yaml when path is empty)
// 3. Environment variables MAILCHECK_*, falling back to values from .env
//
// Command-line flags are applied by the caller, followed by Validate.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		// Явно указанный файл обязан существовать
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config.Merge(fileConfig)
	} else if userPath := l.userConfigPath(); userPath != "" {
		if fileConfig, err := LoadFromFile(userPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userPath))
			config.Merge(fileConfig)
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	envConfig, err := l.fromEnv()
	if err != nil {
		return nil, err
	}
	config.Merge(envConfig)

	return config, nil
}

// fromEnv читает MAILCHECK_* из окружения; .env заполняет только отсутствующие значения
func (l *Loader) fromEnv() (*Config, error) {
	dotenv, err := godotenv.Read(l.dotEnvPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Failed to read .env file", slog.String("path", l.dotEnvPath), slog.String("error", err.Error()))
		}
		dotenv = map[string]string{}
	} else {
		l.logger.Debug("Loaded .env file", slog.String("path", l.dotEnvPath))
	}

	lookup := func(name string) string {
		key := EnvPrefix + name
		if v := l.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	config := &Config{
		ServerURL:         lookup("SERVER_URL"),
		StorageDriver:     lookup("STORAGE_DRIVER"),
		StoragePath:       lookup("STORAGE_PATH"),
		SessionPassphrase: lookup("SESSION_PASSPHRASE"),
		LogLevel:          lookup("LOG_LEVEL"),
		LogFormat:         lookup("LOG_FORMAT"),
	}

	if v := lookup("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %sREQUEST_TIMEOUT: %w", EnvPrefix, err)
		}
		config.RequestTimeout = d
	}

	return config, nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := l.homeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}
