package hmacsig

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/credential"
)

// Strategy adapts the Verifier to inbound HTTP requests: it decodes the
// authorization token as apiKey:signature and canonicalizes the request
// into the signed payload.
type Strategy struct {
	verifier *Verifier
}

var _ auth.Strategy = (*Strategy)(nil)

// NewStrategy wraps a Verifier as a dispatchable strategy.
func NewStrategy(verifier *Verifier) *Strategy {
	return &Strategy{verifier: verifier}
}

// Name implements auth.Strategy.
func (s *Strategy) Name() string { return "hmac" }

// Verify extracts the apiKey/signature pair and the signed payload from
// the request and delegates to the Verifier. For read-only requests the
// payload is the decoded query-string mapping; otherwise it is the
// parsed JSON body.
func (s *Strategy) Verify(ctx context.Context, r *http.Request) auth.Outcome {
	apiKey, signature, ok := auth.DecodeAuthorization(r.Header.Get("Authorization"))
	if !ok {
		return auth.Deny(credential.ReasonNone)
	}

	payload, err := payloadFor(r)
	if err != nil {
		// An unparseable body cannot match any signature.
		return auth.Deny(credential.ReasonBadHash)
	}

	principal, reason, err := s.verifier.Verify(ctx, apiKey, signature, payload)
	if err != nil {
		return auth.Fail(err)
	}
	if principal == nil {
		return auth.Deny(reason)
	}
	return auth.Grant(principal)
}

// payloadFor canonicalizes the request into the signed mapping.
func payloadFor(r *http.Request) (map[string]any, error) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Body == nil {
		payload := make(map[string]any)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
		return payload, nil
	}

	payload := make(map[string]any)
	dec := json.NewDecoder(r.Body)
	// Numbers stay json.Number so the recomputed serialization preserves
	// the exact literals the client signed.
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
