package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/storage"
)

// Strategy resolves the session cookie to a stored credential. Requests
// without a usable session yield a redirect outcome, never a hard 401.
type Strategy struct {
	manager *Manager
	repo    credential.Repository
}

var _ auth.Strategy = (*Strategy)(nil)

// NewStrategy creates the session strategy.
func NewStrategy(manager *Manager, repo credential.Repository) *Strategy {
	return &Strategy{manager: manager, repo: repo}
}

// Name implements auth.Strategy.
func (s *Strategy) Name() string { return "session" }

// Verify loads the principal referenced by the session cookie.
func (s *Strategy) Verify(ctx context.Context, r *http.Request) auth.Outcome {
	id, err := s.manager.CredentialID(r)
	if err != nil {
		return auth.Outcome{Decision: auth.Redirect, Reason: credential.ReasonNone}
	}

	principal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The account behind the session is gone; back to login.
			return auth.Outcome{Decision: auth.Redirect, Reason: credential.ReasonNone}
		}
		return auth.Fail(err)
	}

	return auth.Grant(principal)
}
