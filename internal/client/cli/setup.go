package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/mailcheck/internal/client/api"
	"github.com/iudanet/mailcheck/internal/client/auth"
	"github.com/iudanet/mailcheck/internal/client/config"
	"github.com/iudanet/mailcheck/internal/client/session"
	"github.com/iudanet/mailcheck/internal/client/storage"
	"github.com/iudanet/mailcheck/internal/client/storage/boltdb"
	"github.com/iudanet/mailcheck/internal/client/storage/sqlite"
)

// setup загружает конфигурацию и собирает зависимости команды
func (c *Cli) setup(cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := newLogger(c.stderr, cfg)
	if err != nil {
		return err
	}
	c.logger = logger

	if c.service != nil {
		return nil
	}

	return c.buildService(cmd.Context())
}

// loadConfig применяет флаги поверх файла конфигурации и окружения
func (c *Cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil))).Load(c.flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = c.flags.serverURL
	}
	if flags.Changed("storage") {
		cfg.StorageDriver = c.flags.storageDriver
	}
	if flags.Changed("db") {
		cfg.StoragePath = c.flags.storagePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = c.flags.logFormat
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(c.flags.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger создает slog логгер на stderr по настройкам конфигурации
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openStorage открывает локальное хранилище выбранного драйвера
func openStorage(ctx context.Context, cfg *config.Config) (storage.LocalStorage, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.StoragePath)
	case config.DriverBolt:
		return boltdb.New(ctx, cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// buildService собирает хранилище, API клиент и контроллер
func (c *Cli) buildService(ctx context.Context) error {
	// 1. Открываем локальное хранилище
	local, err := openStorage(ctx, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.storage = local

	// 2. Идентификатор установки клиента
	clientID, err := session.ClientID(ctx, local)
	if err != nil {
		return err
	}

	// 3. Ключ шифрования токена (если задан пароль сессии)
	key, err := session.DeriveKey(ctx, local, c.cfg.SessionPassphrase)
	if err != nil {
		return err
	}

	store, err := session.NewStore(local, key)
	if err != nil {
		return err
	}

	// 4. API клиент с bearer токеном из хранилища
	apiClient := api.NewClient(c.cfg.ServerURL,
		api.WithTokenSource(store),
		api.WithClientID(clientID),
		api.WithUserAgent("mailcheck/"+c.build.Version),
		api.WithTimeout(c.cfg.RequestTimeout),
		api.WithLogger(c.logger),
	)

	// 5. Контроллер авторизации
	c.service = auth.NewController(apiClient, store,
		auth.WithNotifier(c),
		auth.WithLogger(c.logger),
	)
	c.tokens = store

	c.logger.Debug("Client initialized",
		"server", c.cfg.ServerURL,
		"storage", c.cfg.StorageDriver,
		"sealed", key != nil,
	)
	return nil
}
