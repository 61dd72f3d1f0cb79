// Package auth defines the verification strategy contract, the outcome
// type shared by every strategy, and the dispatcher that classifies an
// inbound request and routes it to the right verification path.
package auth

import (
	"context"
	"net/http"

	"github.com/sentra-dev/gate/pkg/credential"
)

// Decision is the three-way result of a verification attempt.
type Decision int

const (
	// Granted means the caller is authenticated; Outcome.Principal is set.
	Granted Decision = iota

	// Denied means the credentials were rejected. Outcome.Reason explains
	// a business rejection; Outcome.Err marks an infrastructure failure
	// that the HTTP layer must map to a 5xx response.
	Denied

	// Redirect means the caller holds no session and should be sent to
	// the login page rather than hard-rejected.
	Redirect
)

// Outcome carries the result of a verification attempt.
//
// Business rejections and infrastructure failures are orthogonal: a
// rejection sets Reason and leaves Err nil, a repository or hashing
// failure sets Err and carries no meaningful Reason.
type Outcome struct {
	Decision  Decision
	Principal *credential.Credential // populated only when Decision == Granted
	Reason    credential.Reason
	Err       error
}

// Deny builds a business-rejection outcome.
func Deny(reason credential.Reason) Outcome {
	return Outcome{Decision: Denied, Reason: reason}
}

// Fail builds an infrastructure-failure outcome.
func Fail(err error) Outcome {
	return Outcome{Decision: Denied, Reason: credential.ReasonNone, Err: err}
}

// Grant builds a success outcome.
func Grant(principal *credential.Credential) Outcome {
	return Outcome{Decision: Granted, Principal: principal, Reason: credential.ReasonNone}
}

// Strategy verifies the credentials carried by an inbound request.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	Verify(ctx context.Context, r *http.Request) Outcome
}

// Dispatcher routes a request to the signature path when it carries an
// authorization token, and to the session path otherwise. The Basic
// strategy is not part of this classification; it is registered on
// dedicated routes.
type Dispatcher struct {
	Hmac    Strategy
	Session Strategy
}

// Name implements Strategy.
func (d *Dispatcher) Name() string { return "dispatch" }

// Verify classifies the request and delegates to the selected strategy.
func (d *Dispatcher) Verify(ctx context.Context, r *http.Request) Outcome {
	if r.Header.Get("Authorization") != "" {
		return d.Hmac.Verify(ctx, r)
	}
	return d.Session.Verify(ctx, r)
}
