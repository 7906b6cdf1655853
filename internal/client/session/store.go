package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/mailcheck/internal/client/storage"
	"github.com/iudanet/mailcheck/internal/crypto"
)

// Store is the session store: a single persistent slot holding the bearer token.
// When a key is set, tokens are sealed before they reach storage and opened when read.
type Store struct {
	storage storage.SessionStorage
	key     []byte
	now     func() time.Time
}

// NewStore creates a session store over storage.
// key may be nil (tokens are kept as-is) or exactly crypto.KeySize bytes.
func NewStore(s storage.SessionStorage, key []byte) (*Store, error) {
	if key != nil && len(key) != crypto.KeySize {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return &Store{
		storage: s,
		key:     key,
		now:     time.Now,
	}, nil
}

// Get возвращает сохраненный токен.
// Возвращает storage.ErrSessionNotFound, если сессии нет.
func (s *Store) Get(ctx context.Context) (string, error) {
	data, err := s.storage.GetSession(ctx)
	if err != nil {
		return "", err
	}

	if !data.Encrypted {
		return data.Token, nil
	}

	if s.key == nil {
		return "", fmt.Errorf("session token is sealed but no session passphrase is configured")
	}

	token, err := crypto.OpenString(data.Token, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to open session token: %w", err)
	}
	return token, nil
}

// Set сохраняет токен, заменяя предыдущий
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("session token cannot be empty")
	}

	data := &storage.SessionData{
		Token:   token,
		SavedAt: s.now().Unix(),
	}

	if s.key != nil {
		sealed, err := crypto.SealString(token, s.key)
		if err != nil {
			return fmt.Errorf("failed to seal session token: %w", err)
		}
		data.Token = sealed
		data.Encrypted = true
	}

	if err := s.storage.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear удаляет токен. Отсутствие сессии не считается ошибкой.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Token реализует api.TokenSource: пустая строка без ошибки, если сессии нет
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.Get(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return "", nil
	}
	return token, err
}
