package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/mailcheck/internal/client/storage"
)

// SaveSession stores the session record in the single-row session table
func (s *Storage) SaveSession(ctx context.Context, session *storage.SessionData) error {
	if session == nil {
		return fmt.Errorf("session data is nil")
	}

	query := `
		INSERT INTO session (id, token, encrypted, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			encrypted = excluded.encrypted,
			saved_at = excluded.saved_at
	`

	if _, err := s.db.ExecContext(ctx, query, session.Token, session.Encrypted, session.SavedAt); err != nil {
		return wrapClosed(fmt.Errorf("failed to save session: %w", err))
	}

	return nil
}

// GetSession retrieves the stored session record
func (s *Storage) GetSession(ctx context.Context) (*storage.SessionData, error) {
	query := `SELECT token, encrypted, saved_at FROM session WHERE id = 1`

	session := &storage.SessionData{}
	err := s.db.QueryRowContext(ctx, query).Scan(
		&session.Token,
		&session.Encrypted,
		&session.SavedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, wrapClosed(fmt.Errorf("failed to get session: %w", err))
	}

	return session, nil
}

// DeleteSession removes the stored session record
func (s *Storage) DeleteSession(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	if err != nil {
		return wrapClosed(fmt.Errorf("failed to delete session: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrSessionNotFound
	}

	return nil
}

// wrapClosed приводит ошибку закрытой БД к storage.ErrStorageClosed
func wrapClosed(err error) error {
	if err != nil && strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %w", storage.ErrStorageClosed, err)
	}
	return err
}
