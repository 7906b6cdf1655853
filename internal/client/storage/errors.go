package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session token is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrMetadataNotFound indicates that metadata key doesn't exist
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
