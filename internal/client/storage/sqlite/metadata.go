package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/mailcheck/internal/client/storage"
)

// SaveMetadata stores value under key
func (s *Storage) SaveMetadata(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("metadata key cannot be empty")
	}

	query := `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return wrapClosed(fmt.Errorf("failed to save metadata %q: %w", key, err))
	}

	return nil
}

// GetMetadata retrieves value by key
func (s *Storage) GetMetadata(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMetadataNotFound
		}
		return nil, wrapClosed(fmt.Errorf("failed to get metadata %q: %w", key, err))
	}

	return value, nil
}
