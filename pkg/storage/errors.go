// Package storage provides sentinel errors shared across credential
// repository implementations. Adapters (memory, postgres) implement the
// credential.Repository interface; this package contains only shared
// values, not the interface itself.
package storage

import "errors"

// Sentinel errors for repository operations.
var (
	// ErrNotFound is returned when no credential matches the lookup.
	ErrNotFound = errors.New("credential not found")

	// ErrConflict is returned when a write violates a unique constraint
	// on email, api_key, or api_secret.
	ErrConflict = errors.New("credential already exists")
)
