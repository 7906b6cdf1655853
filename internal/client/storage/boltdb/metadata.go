package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/mailcheck/internal/client/storage"
)

// SaveMetadata stores value under key
func (s *Storage) SaveMetadata(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("metadata key cannot be empty")
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save metadata %q: %w", key, err)
		}

		return nil
	})
}

// GetMetadata retrieves value by key
func (s *Storage) GetMetadata(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrMetadataNotFound
		}

		// Копируем: память bbolt недействительна после завершения транзакции
		value = append([]byte(nil), data...)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}
