package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/mailcheck/internal/client/storage"
	"github.com/iudanet/mailcheck/internal/crypto"
)

// ClientID возвращает постоянный идентификатор этой установки клиента.
// Генерируется при первом запуске и переживает logout.
func ClientID(ctx context.Context, meta storage.MetadataStorage) (string, error) {
	value, err := meta.GetMetadata(ctx, storage.MetaClientID)
	if err == nil {
		if id, parseErr := uuid.ParseBytes(value); parseErr == nil {
			return id.String(), nil
		}
		// Поврежденное значение перезаписываем новым
	} else if !errors.Is(err, storage.ErrMetadataNotFound) {
		return "", fmt.Errorf("failed to read client id: %w", err)
	}

	id := uuid.New().String()
	if err := meta.SaveMetadata(ctx, storage.MetaClientID, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to save client id: %w", err)
	}
	return id, nil
}

// DeriveKey деривирует ключ шифрования токена из парольной фразы.
// Соль создается один раз на установку и хранится в метаданных.
// Пустая фраза означает хранение токена без шифрования: возвращается nil.
func DeriveKey(ctx context.Context, meta storage.MetadataStorage, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, nil
	}

	salt, err := meta.GetMetadata(ctx, storage.MetaSessionSalt)
	switch {
	case errors.Is(err, storage.ErrMetadataNotFound):
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := meta.SaveMetadata(ctx, storage.MetaSessionSalt, salt); err != nil {
			return nil, fmt.Errorf("failed to save session salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read session salt: %w", err)
	}

	key, err := crypto.DeriveSessionKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	return key, nil
}
