package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mailcheck/internal/client/storage"
	"github.com/iudanet/mailcheck/internal/crypto"
)

func TestClientID_GeneratedOnceAndReused(t *testing.T) {
	ctx := context.Background()
	ms := newMockStorage()

	id1, err := ClientID(ctx, ms)
	require.NoError(t, err)
	_, err = uuid.Parse(id1)
	require.NoError(t, err)

	id2, err := ClientID(ctx, ms)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, []byte(id1), ms.meta[storage.MetaClientID])
}

func TestClientID_ReplacesCorruptedValue(t *testing.T) {
	ctx := context.Background()
	ms := newMockStorage()
	ms.meta[storage.MetaClientID] = []byte("not-a-uuid")

	id, err := ClientID(ctx, ms)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", id)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
}

func TestClientID_StorageError(t *testing.T) {
	ms := newMockStorage()
	ms.metaErr = errors.New("io error")

	_, err := ClientID(context.Background(), ms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read client id")
}

func TestDeriveKey(t *testing.T) {
	ctx := context.Background()
	ms := newMockStorage()

	// Без фразы - без шифрования
	key, err := DeriveKey(ctx, ms, "")
	require.NoError(t, err)
	assert.Nil(t, key)
	assert.NotContains(t, ms.meta, storage.MetaSessionSalt)

	key1, err := DeriveKey(ctx, ms, "my passphrase")
	require.NoError(t, err)
	assert.Len(t, key1, crypto.KeySize)
	assert.Len(t, ms.meta[storage.MetaSessionSalt], crypto.SaltSize)

	// Соль переиспользуется - ключ тот же
	key2, err := DeriveKey(ctx, ms, "my passphrase")
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	key3, err := DeriveKey(ctx, ms, "other passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)
}

func TestDeriveKey_Errors(t *testing.T) {
	ctx := context.Background()

	ms := newMockStorage()
	ms.metaErr = errors.New("io error")
	_, err := DeriveKey(ctx, ms, "phrase")
	assert.ErrorContains(t, err, "failed to read session salt")

	ms = newMockStorage()
	ms.meta[storage.MetaSessionSalt] = []byte("short")
	_, err = DeriveKey(ctx, ms, "phrase")
	assert.ErrorContains(t, err, "failed to derive session key")
}
