package credential

import (
	"context"
	"time"
)

// Repository is the persistence contract for credentials. Implementations
// must keep email, api_key, and api_secret unique and return
// storage.ErrNotFound / storage.ErrConflict sentinels.
//
// ApplyFailure and ResetLockout exist because concurrent failed logins
// against the same credential race on the attempt counter. Both writes
// are atomic in every implementation: ApplyFailure performs the whole
// failure transition (reset-after-expiry, increment, lock on threshold)
// in one operation and returns the post-transition record.
type Repository interface {
	Create(ctx context.Context, c *Credential) (*Credential, error)
	Update(ctx context.Context, c *Credential) error

	GetByID(ctx context.Context, id string) (*Credential, error)
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*Credential, error)

	ApplyFailure(ctx context.Context, id string, now time.Time) (*Credential, error)
	ResetLockout(ctx context.Context, id string) error
}
