package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/mailcheck/internal/client/api"
	"github.com/iudanet/mailcheck/internal/client/session"
	"github.com/iudanet/mailcheck/internal/client/storage"
	"github.com/iudanet/mailcheck/internal/models"
	"github.com/iudanet/mailcheck/internal/validation"
	pkgapi "github.com/iudanet/mailcheck/pkg/api"
)

// DefaultResendMessage показывается, если сервер не вернул текст
const DefaultResendMessage = "Verification email sent."

// Controller владеет состоянием аутентификации и текущим пользователем.
//
// Login и Register выполняются строго по одному. Одновременные RefreshUser
// схлопываются в один запрос /auth/me. Login и Logout сдвигают поколение
// сессии: результат запроса, начатого в другом поколении, отбрасывается.
type Controller struct {
	api      api.ClientAPI
	store    SessionStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	opMu    sync.Mutex // login/register
	refresh singleflight.Group

	mu      sync.Mutex
	user    *models.User
	state   State
	settled State // последнее состояние, отличное от loading
	gen     uint64

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Compile-time check that Controller implements Service
var _ Service = (*Controller)(nil)

// Option настраивает Controller
type Option func(*Controller)

// WithNotifier задает получателя пользовательских сообщений
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock задает источник времени для проверки срока действия токена
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController создает контроллер в состоянии loading
func NewController(apiClient api.ClientAPI, store SessionStore, opts ...Option) *Controller {
	c := &Controller{
		api:     apiClient,
		store:   store,
		state:   StateLoading,
		settled: StateLoading,
		subs:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Init восстанавливает сессию при старте.
// Нет токена - anonymous. Токен с истекшим exp удаляется без запроса к серверу.
// Иначе выполняется RefreshUser.
// Если за это время начался login, его состояние не трогаем.
func (c *Controller) Init(ctx context.Context) (Intent, error) {
	gen := c.generation()

	token, err := c.store.Get(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		c.logger.Debug("No stored session")
		c.settleIf(gen, StateAnonymous)
		return IntentNone, nil
	}
	if err != nil {
		c.logger.Error("Failed to read stored session", "error", err)
		c.notifier.Notify(LevelError, api.GenericMessage)
		c.settleIf(gen, StateAnonymous)
		return IntentNone, fmt.Errorf("failed to read session: %w", err)
	}

	if session.Expired(token, c.now()) {
		c.logger.Info("Stored session token has expired")
		if !c.expireSession(ctx, gen) {
			return IntentNone, nil
		}
		return IntentLogin, nil
	}

	return c.RefreshUser(ctx)
}

// Login выполняет аутентификацию по email и паролю
func (c *Controller) Login(ctx context.Context, email, password string) (Intent, error) {
	// Валидация входных данных
	if err := validation.ValidateEmail(email); err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return IntentNone, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidateLoginPassword(password); err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return IntentNone, fmt.Errorf("invalid password: %w", err)
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	gen := c.begin(true)

	resp, err := c.api.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return IntentNone, c.failAuth(gen, "login", err)
	}

	state, err := c.openSession(ctx, gen, resp, stateFor(resp.User))
	if err != nil {
		return IntentNone, err
	}

	c.logger.Info("Logged in", "user_id", resp.User.ID, "state", state.String())
	if state == StateVerified {
		return IntentDashboard, nil
	}
	return IntentVerifyPending, nil
}

// Register создает аккаунт. Новый аккаунт всегда ожидает подтверждения email.
func (c *Controller) Register(ctx context.Context, name, email, password string) (Intent, error) {
	// Валидация входных данных
	if err := validation.ValidateName(name); err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return IntentNone, fmt.Errorf("invalid name: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return IntentNone, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return IntentNone, fmt.Errorf("invalid password: %w", err)
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	gen := c.begin(true)

	resp, err := c.api.Register(ctx, pkgapi.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return IntentNone, c.failAuth(gen, "register", err)
	}

	if _, err := c.openSession(ctx, gen, resp, StateUnverified); err != nil {
		return IntentNone, err
	}

	c.logger.Info("Registered", "user_id", resp.User.ID)
	return IntentVerifyPending, nil
}

// Logout синхронно удаляет токен и пользователя. Незавершенные запросы
// после этого не могут восстановить сессию.
func (c *Controller) Logout(ctx context.Context) Intent {
	c.endSession(ctx)
	c.logger.Info("Logged out")
	return IntentLogin
}

// RefreshUser повторно запрашивает текущего пользователя.
// Одновременные вызовы разделяют один запрос и контекст первого вызова.
func (c *Controller) RefreshUser(ctx context.Context) (Intent, error) {
	v, err, shared := c.refresh.Do("me", func() (any, error) {
		return c.refreshUser(ctx)
	})
	if shared {
		c.logger.Debug("Joined in-flight user refresh")
	}
	intent, _ := v.(Intent)
	return intent, err
}

func (c *Controller) refreshUser(ctx context.Context) (Intent, error) {
	cur := c.generation()
	if _, err := c.store.Get(ctx); errors.Is(err, storage.ErrSessionNotFound) {
		if !c.expireSession(ctx, cur) {
			return IntentNone, nil
		}
		return IntentLogin, nil
	}

	c.mu.Lock()
	prev := c.settled
	c.mu.Unlock()
	if prev == StateLoading {
		prev = StateAnonymous
	}

	gen := c.begin(false)

	resp, err := c.api.Me(ctx)

	c.mu.Lock()
	if c.gen != gen {
		// Сессия сменилась, пока шел запрос
		c.mu.Unlock()
		c.logger.Debug("Discarding stale user refresh")
		return IntentNone, nil
	}

	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			c.expireLocked(ctx)
			snap := c.snapshotLocked()
			c.mu.Unlock()
			c.emit(snap)
			c.logger.Info("Session rejected by server, signed out")
			return IntentLogin, nil
		}

		c.setLocked(prev, c.user)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)

		c.logger.Warn("Failed to refresh user", "error", err)
		c.notifier.Notify(LevelError, api.UserMessage(err))
		return IntentNone, err
	}

	c.setLocked(stateFor(resp.User), resp.User.Clone())
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	return IntentNone, nil
}

// ResendVerification повторно отправляет письмо подтверждения email.
// Отказ сервера в сессии (401) завершает ее и возвращает IntentLogin.
func (c *Controller) ResendVerification(ctx context.Context) (Intent, error) {
	if !c.Snapshot().State.Authenticated() {
		return IntentNone, ErrNoSession
	}

	gen := c.generation()

	resp, err := c.api.ResendVerification(ctx)
	if err != nil {
		c.logger.Warn("Failed to resend verification email", "error", err)
		c.notifier.Notify(LevelError, api.UserMessage(err))
		if errors.Is(err, api.ErrUnauthorized) && c.expireSession(ctx, gen) {
			return IntentLogin, err
		}
		return IntentNone, err
	}

	message := resp.Message
	if message == "" {
		message = DefaultResendMessage
	}
	c.notifier.Notify(LevelInfo, message)
	return IntentNone, nil
}

// Snapshot возвращает копию текущего состояния
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe регистрирует обработчик изменений состояния.
// Обработчик вызывается синхронно, вне внутренних блокировок.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// begin переводит контроллер в loading и возвращает поколение запроса.
// advance == true начинает новое поколение (login/register).
func (c *Controller) begin(advance bool) uint64 {
	c.mu.Lock()
	if advance {
		c.gen++
	}
	gen := c.gen
	c.state = StateLoading
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return gen
}

// failAuth обрабатывает ошибку login/register.
// Токен не трогаем: неудачный вход не завершает уже сохраненную сессию.
func (c *Controller) failAuth(gen uint64, op string, err error) error {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.setLocked(StateAnonymous, nil)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	c.logger.Warn("Authentication failed", "op", op, "error", err)
	c.notifier.Notify(LevelError, api.UserMessage(err))
	return err
}

// openSession сохраняет токен и пользователя, если поколение не сменилось.
// Проверка поколения и запись токена выполняются под одной блокировкой,
// поэтому Logout не может оказаться между ними. Сохраненный токен начинает
// новое поколение: refresh, начатый со старым токеном, будет отброшен.
func (c *Controller) openSession(ctx context.Context, gen uint64, resp *pkgapi.AuthResponse, state State) (State, error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded authentication result")
		return StateLoading, ErrSuperseded
	}

	if err := c.store.Set(ctx, resp.Token); err != nil {
		c.setLocked(StateAnonymous, nil)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)

		c.logger.Error("Failed to store session", "error", err)
		c.notifier.Notify(LevelError, api.GenericMessage)
		return StateAnonymous, fmt.Errorf("failed to store session: %w", err)
	}

	c.gen++
	c.setLocked(state, resp.User.Clone())
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	return state, nil
}

// endSession удаляет токен и пользователя и начинает новое поколение
func (c *Controller) endSession(ctx context.Context) {
	c.mu.Lock()
	c.endSessionLocked(ctx)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

func (c *Controller) endSessionLocked(ctx context.Context) {
	c.gen++
	c.expireLocked(ctx)
}

// expireSession удаляет недействительный токен, если поколение все еще gen.
// Поколение не сдвигается, поэтому незавершенный login не отменяется.
// Возвращает false, если сессия уже сменилась и ничего не сделано.
func (c *Controller) expireSession(ctx context.Context, gen uint64) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("Session changed, keeping it")
		return false
	}
	c.expireLocked(ctx)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
	return true
}

func (c *Controller) expireLocked(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("Failed to clear session", "error", err)
	}
	c.setLocked(StateAnonymous, nil)
}

// settleIf фиксирует состояние без пользователя, если поколение все еще gen
func (c *Controller) settleIf(gen uint64, state State) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.setLocked(state, nil)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

func (c *Controller) setLocked(state State, user *models.User) {
	c.state = state
	c.user = user
	if state != StateLoading {
		c.settled = state
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, User: c.user.Clone()}
}

func (c *Controller) emit(snap Snapshot) {
	c.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(Snapshot{State: snap.State, User: snap.User.Clone()})
	}
}
