package storage

import "context"

// Ключи метаданных клиента
const (
	// MetaClientID - постоянный идентификатор установки клиента (uuid)
	MetaClientID = "client_id"
	// MetaSessionSalt - соль для деривации ключа шифрования токена
	MetaSessionSalt = "session_salt"
)

// MetadataStorage defines interface for storing small client metadata values
type MetadataStorage interface {
	// SaveMetadata stores value under key, replacing the previous value
	SaveMetadata(ctx context.Context, key string, value []byte) error

	// GetMetadata retrieves value by key
	// Returns ErrMetadataNotFound if key doesn't exist
	GetMetadata(ctx context.Context, key string) ([]byte, error)
}

// LocalStorage объединяет все локальные хранилища клиента
type LocalStorage interface {
	SessionStorage
	MetadataStorage
	Close() error
}
