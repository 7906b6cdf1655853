package storage

import (
	"context"
)

// SessionStorage defines the persistent slot that holds the bearer token.
// This is the lowest storage layer - it works with raw records (token may already be sealed)
// and doesn't perform any encryption/decryption itself.
type SessionStorage interface {
	// SaveSession stores the session record, replacing any previous one
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves the stored session record as-is
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session (logout)
	// Returns ErrSessionNotFound if there was nothing to delete
	DeleteSession(ctx context.Context) error
}

// SessionData represents the session record in storage
// Token is plaintext when Encrypted is false and base64 ciphertext otherwise.
// The sealing happens in the session.Store layer.
type SessionData struct {
	Token     string `json:"token"`
	SavedAt   int64  `json:"saved_at"`
	Encrypted bool   `json:"encrypted"`
}
