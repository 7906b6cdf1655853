package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/iudanet/mailcheck/internal/client/auth"
	"github.com/iudanet/mailcheck/internal/client/config"
	"github.com/iudanet/mailcheck/internal/client/iocli"
	"github.com/iudanet/mailcheck/internal/client/route"
	"github.com/iudanet/mailcheck/internal/client/storage"
)

// BuildInfo содержит версию сборки (задается через ldflags)
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// TokenReader дает доступ к сохраненному токену (для команды status)
type TokenReader interface {
	Get(ctx context.Context) (string, error)
}

// globalFlags - persistent флаги корневой команды
type globalFlags struct {
	configPath    string
	serverURL     string
	storageDriver string
	storagePath   string
	logLevel      string
	logFormat     string
	passwordFile  string
	timeout       string
}

// Cli связывает команды с контроллером авторизации, роутером и страницами
type Cli struct {
	io      iocli.IO
	stderr  io.Writer
	getenv  func(string) string
	router  *route.Router
	build   BuildInfo
	flags   globalFlags
	cfg     *config.Config
	logger  *slog.Logger
	storage storage.LocalStorage
	service auth.Service
	tokens  TokenReader

	// notified == true, если ошибка уже показана пользователю через Notifier
	notified bool
}

// Option настраивает Cli
type Option func(*Cli)

// WithService подставляет готовый сервис авторизации вместо сборки из конфигурации
func WithService(s auth.Service, tokens TokenReader) Option {
	return func(c *Cli) {
		c.service = s
		c.tokens = tokens
	}
}

// WithStderr задает поток для логов
func WithStderr(w io.Writer) Option {
	return func(c *Cli) { c.stderr = w }
}

// WithGetenv задает источник переменных окружения для чтения пароля
func WithGetenv(getenv func(string) string) Option {
	return func(c *Cli) { c.getenv = getenv }
}

// New создает CLI
func New(ioc iocli.IO, build BuildInfo, opts ...Option) *Cli {
	c := &Cli{
		io:     ioc,
		stderr: os.Stderr,
		getenv: os.Getenv,
		router: route.NewRouter(),
		build:  build,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run выполняет команду и возвращает код завершения процесса
func (c *Cli) Run(ctx context.Context, args []string) int {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := c.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		// Ошибки контроллера уже показаны через Notifier
		if !c.notified {
			_, _ = fmt.Fprintf(c.stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// Notify реализует auth.Notifier: сообщения выводятся в терминал
func (c *Cli) Notify(level auth.Level, message string) {
	switch level {
	case auth.LevelError:
		c.notified = true
		c.io.Printf("✗ %s\n", message)
	default:
		c.io.Printf("✓ %s\n", message)
	}
}

// close освобождает локальное хранилище
func (c *Cli) close() error {
	if c.storage == nil {
		return nil
	}
	err := c.storage.Close()
	c.storage = nil
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
