package auth

import "context"

// SessionStore defines the persistent token slot the controller writes to.
// session.Store implements it.
type SessionStore interface {
	// Get returns the stored token or storage.ErrSessionNotFound
	Get(ctx context.Context) (string, error)

	// Set replaces the stored token
	Set(ctx context.Context, token string) error

	// Clear removes the stored token. A missing session is not an error
	Clear(ctx context.Context) error
}

// Service defines the authentication operations the CLI drives.
// Each operation returns an Intent instead of navigating.
type Service interface {
	// Init восстанавливает сессию при старте приложения
	Init(ctx context.Context) (Intent, error)

	// Login выполняет аутентификацию по email и паролю
	Login(ctx context.Context, email, password string) (Intent, error)

	// Register создает аккаунт и открывает сессию
	Register(ctx context.Context, name, email, password string) (Intent, error)

	// Logout синхронно удаляет токен и пользователя
	Logout(ctx context.Context) Intent

	// RefreshUser повторно запрашивает текущего пользователя
	RefreshUser(ctx context.Context) (Intent, error)

	// ResendVerification повторно отправляет письмо подтверждения email
	ResendVerification(ctx context.Context) (Intent, error)

	// Snapshot возвращает копию текущего состояния
	Snapshot() Snapshot

	// Subscribe регистрирует обработчик изменений состояния
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}
