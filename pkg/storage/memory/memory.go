// Package memory provides an in-memory credential repository for testing
// and lightweight deployments. Records are lost when the process
// restarts. Lockout transitions run under the store lock, so concurrent
// failed logins cannot lose counter updates.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/lockout"
	"github.com/sentra-dev/gate/pkg/storage"
)

// Store is an in-memory credential repository.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*credential.Credential
	byEmail map[string]string // email -> id
	byKey   map[string]string // api key -> id
	policy  lockout.Policy
}

// Ensure Store implements credential.Repository at compile time.
var _ credential.Repository = (*Store)(nil)

// New creates an empty store applying the given lockout policy.
func New(policy lockout.Policy) *Store {
	return &Store{
		byID:    make(map[string]*credential.Credential),
		byEmail: make(map[string]string),
		byKey:   make(map[string]string),
		policy:  policy,
	}
}

// Create persists a new credential, assigning an ID when absent.
func (s *Store) Create(ctx context.Context, c *credential.Credential) (*credential.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[c.Email]; exists {
		return nil, storage.ErrConflict
	}
	if _, exists := s.byKey[c.APIKey]; exists {
		return nil, storage.ErrConflict
	}

	stored := clone(c)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	s.byKey[stored.APIKey] = stored.ID

	return clone(stored), nil
}

// Update replaces an existing record.
func (s *Store) Update(ctx context.Context, c *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[c.ID]
	if !ok {
		return storage.ErrNotFound
	}

	if id, exists := s.byEmail[c.Email]; exists && id != c.ID {
		return storage.ErrConflict
	}
	if id, exists := s.byKey[c.APIKey]; exists && id != c.ID {
		return storage.ErrConflict
	}

	stored := clone(c)
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = time.Now()

	delete(s.byEmail, old.Email)
	delete(s.byKey, old.APIKey)

	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	s.byKey[stored.APIKey] = stored.ID

	return nil
}

// GetByID retrieves a credential by its identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(c), nil
}

// GetByEmail retrieves a credential by its login identifier.
func (s *Store) GetByEmail(ctx context.Context, email string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

// GetByAPIKey retrieves a credential by API key.
func (s *Store) GetByAPIKey(ctx context.Context, apiKey string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[apiKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

// ApplyFailure applies the failed-attempt transition atomically under
// the store lock and returns the post-transition record.
func (s *Store) ApplyFailure(ctx context.Context, id string, now time.Time) (*credential.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	next := s.policy.OnFailure(lockout.State{
		FailedAttempts: c.FailedAttemptCount,
		LockedUntil:    c.LockedUntil,
	}, now)

	c.FailedAttemptCount = next.FailedAttempts
	c.LockedUntil = next.LockedUntil
	c.UpdatedAt = time.Now()

	return clone(c), nil
}

// ResetLockout clears the counter and lock window.
func (s *Store) ResetLockout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}

	c.FailedAttemptCount = 0
	c.LockedUntil = nil
	c.UpdatedAt = time.Now()

	return nil
}

// clone copies a record so callers never share mutable state with the store.
func clone(c *credential.Credential) *credential.Credential {
	out := *c
	if c.LockedUntil != nil {
		t := *c.LockedUntil
		out.LockedUntil = &t
	}
	return &out
}
