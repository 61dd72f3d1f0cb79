package auth

import (
	"context"

	"github.com/sentra-dev/gate/pkg/credential"
)

// principalKey is a private type for the principal context key.
type principalKey struct{}

// SetPrincipal stores the authenticated credential in the context.
func SetPrincipal(ctx context.Context, c *credential.Credential) context.Context {
	return context.WithValue(ctx, principalKey{}, c)
}

// PrincipalFromContext retrieves the authenticated credential.
// Returns nil when the request was not authenticated.
func PrincipalFromContext(ctx context.Context) *credential.Credential {
	if v, ok := ctx.Value(principalKey{}).(*credential.Credential); ok {
		return v
	}
	return nil
}
