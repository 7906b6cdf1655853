package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mailcheck/internal/client/storage"
)

// setupTestStorage создает хранилище в памяти с примененными миграциями
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestNew_AppliesMigrations(t *testing.T) {
	s := setupTestStorage(t)

	for _, table := range []string{"session", "metadata"} {
		var name string
		err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
		assert.Equal(t, table, name)
	}
}

func TestNew_FileDatabaseReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.sqlite")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, &storage.SessionData{Token: "persisted", SavedAt: 1}))
	require.NoError(t, s.Close())

	// Повторное открытие не должно падать на уже примененных миграциях
	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Token)
}

func TestStorage_SaveGetDeleteSession(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	tests := []struct {
		session *storage.SessionData
		name    string
	}{
		{
			name:    "save plaintext token",
			session: &storage.SessionData{Token: "opaque-token", SavedAt: time.Now().Unix()},
		},
		{
			name:    "replace with sealed token",
			session: &storage.SessionData{Token: "c2VhbGVk", SavedAt: time.Now().Unix() + 5, Encrypted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.SaveSession(ctx, tt.session))

			got, err := s.GetSession(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.session, got)
		})
	}

	// В таблице всегда одна строка
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, s.DeleteSession(ctx))
	_, err = s.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx), storage.ErrSessionNotFound)
}

func TestStorage_SaveSession_Nil(t *testing.T) {
	s := setupTestStorage(t)
	assert.ErrorContains(t, s.SaveSession(context.Background(), nil), "session data is nil")
}

func TestStorage_Metadata(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetMetadata(ctx, storage.MetaSessionSalt)
	assert.ErrorIs(t, err, storage.ErrMetadataNotFound)

	salt := []byte{0x00, 0x01, 0xfe, 0xff}
	require.NoError(t, s.SaveMetadata(ctx, storage.MetaSessionSalt, salt))

	got, err := s.GetMetadata(ctx, storage.MetaSessionSalt)
	require.NoError(t, err)
	assert.Equal(t, salt, got)

	require.NoError(t, s.SaveMetadata(ctx, storage.MetaSessionSalt, []byte("new")))
	got, err = s.GetMetadata(ctx, storage.MetaSessionSalt)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)

	assert.ErrorContains(t, s.SaveMetadata(ctx, "", []byte("x")), "metadata key cannot be empty")
}

func TestStorage_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = s.SaveSession(ctx, &storage.SessionData{Token: "t"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = s.GetMetadata(ctx, storage.MetaClientID)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
