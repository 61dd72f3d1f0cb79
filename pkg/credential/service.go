package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sentra-dev/gate/pkg/observability"
	"github.com/sentra-dev/gate/pkg/storage"
)

// Service orchestrates the password verification path: repository lookup,
// hash comparison, and the lockout side effects of the outcome.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	issuer Issuer
	now    func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a credential service.
func NewService(repo Repository, hasher PasswordHasher, issuer Issuer, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyPassword answers whether plaintext is the password of the
// credential identified by email, applying lockout side effects.
//
// Business rejections come back as (nil, reason, nil); infrastructure
// failures as a non-nil error with ReasonNone. A principal is returned
// only when the comparison matched and every implied state write was
// confirmed.
//
// The comparison runs even when the credential is currently locked:
// lockout throttles wrong-password guessing, it does not block a correct
// credential. Callers wanting a hard lock check can consult IsLocked.
func (s *Service) VerifyPassword(ctx context.Context, email, plaintext string) (*Credential, Reason, error) {
	cred, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ReasonNotFound, nil
		}
		return nil, ReasonNone, fmt.Errorf("looking up credential: %w", err)
	}

	start := s.now()
	match, err := s.hasher.Verify(plaintext, cred.PasswordHash)
	observability.PasswordVerifySeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, ReasonNone, fmt.Errorf("verifying password for %s: %w", cred.ID, err)
	}

	if match {
		// Fast path: nothing to reset, no write.
		if cred.FailedAttemptCount == 0 && cred.LockedUntil == nil {
			return cred, ReasonNone, nil
		}

		if err := s.repo.ResetLockout(ctx, cred.ID); err != nil {
			return nil, ReasonNone, fmt.Errorf("resetting lockout state: %w", err)
		}
		cred.FailedAttemptCount = 0
		cred.LockedUntil = nil
		return cred, ReasonNone, nil
	}

	wasLocked := cred.IsLocked(s.now())
	after, err := s.repo.ApplyFailure(ctx, cred.ID, s.now())
	if err != nil {
		return nil, ReasonNone, fmt.Errorf("recording failed attempt: %w", err)
	}
	if !wasLocked && after.IsLocked(s.now()) {
		observability.LockoutsTotal.Inc()
	}

	return nil, ReasonPasswordIncorrect, nil
}

// IssueCredentials makes sure the credential carries an API key/secret
// pair and persists the result. It is an idempotent no-op when the pair
// is already present.
func (s *Service) IssueCredentials(ctx context.Context, c *Credential) (apiKey, apiSecret string, err error) {
	if c.APIKey != "" && c.APISecret != "" {
		return c.APIKey, c.APISecret, nil
	}

	if err := issueCredentialsIfAbsent(c, s.issuer); err != nil {
		return "", "", err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return "", "", fmt.Errorf("persisting issued credentials: %w", err)
	}

	return c.APIKey, c.APISecret, nil
}

// Register prepares and persists a new credential. The caller supplies
// identity fields and the plaintext password; Register applies the
// preparation pipeline and creates the record.
func (s *Service) Register(ctx context.Context, c *Credential) (*Credential, error) {
	if err := Prepare(c, s.hasher, s.issuer); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("creating credential: %w", err)
	}

	return created, nil
}
