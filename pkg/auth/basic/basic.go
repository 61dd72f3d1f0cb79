// Package basic implements the stateless HTTP Basic strategy: the
// authorization token decodes as email:password and runs the password
// verification path directly, without creating a session. It shares the
// token framing with the signature path but is a distinct strategy,
// selected by the routes that register it.
package basic

import (
	"context"
	"net/http"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/credential"
)

// Strategy verifies email:password pairs against the credential service.
type Strategy struct {
	service *credential.Service
}

var _ auth.Strategy = (*Strategy)(nil)

// NewStrategy creates the basic strategy backed by service.
func NewStrategy(service *credential.Service) *Strategy {
	return &Strategy{service: service}
}

// Name implements auth.Strategy.
func (s *Strategy) Name() string { return "basic" }

// Verify decodes the token as email:password and runs the password path.
// Lockout side effects apply exactly as on interactive login.
func (s *Strategy) Verify(ctx context.Context, r *http.Request) auth.Outcome {
	email, pass, ok := auth.DecodeAuthorization(r.Header.Get("Authorization"))
	if !ok {
		return auth.Deny(credential.ReasonNone)
	}

	principal, reason, err := s.service.VerifyPassword(ctx, email, pass)
	if err != nil {
		return auth.Fail(err)
	}
	if principal == nil {
		return auth.Deny(reason)
	}
	return auth.Grant(principal)
}
