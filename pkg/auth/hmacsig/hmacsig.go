// Package hmacsig implements the signature verification path: keyed-hash
// signatures over canonicalized request payloads, with a freshness
// window tied to a "date" field inside the signed payload.
//
// The canonical form of a payload is its encoding/json serialization
// (object keys lexically sorted). The signature is the hex-encoded
// HMAC-SHA-256 of that form under the credential's API secret. Both the
// signing client and the verifier use the same canonicalization, so any
// structural change to the payload after signing changes the expected
// signature.
package hmacsig

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/storage"
)

// DefaultSkew is the freshness window around the server clock.
const DefaultSkew = 3 * time.Minute

// Sign computes the signature a verifier expects for payload under
// secret. Machine clients use it to sign outbound requests.
func Sign(secret string, payload map[string]any) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verifier validates signed payloads against stored credentials.
type Verifier struct {
	repo credential.Repository
	skew time.Duration
	now  func() time.Time
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithSkew overrides the freshness window.
func WithSkew(skew time.Duration) VerifierOption {
	return func(v *Verifier) { v.skew = skew }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a verifier reading credentials from repo.
func NewVerifier(repo credential.Repository, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		repo: repo,
		skew: DefaultSkew,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks suppliedSignature against the signature expected for
// payload under the secret tied to apiKey.
//
// The payload must carry a "date" field holding seconds since epoch
// (numeric or numeric string) within the freshness window. The expected
// signature is recomputed over the payload exactly as received,
// including the date field. No lockout state is touched on this path.
func (v *Verifier) Verify(ctx context.Context, apiKey, suppliedSignature string, payload map[string]any) (*credential.Credential, credential.Reason, error) {
	ts, ok := timestamp(payload)
	if !ok {
		return nil, credential.ReasonNoTimestamp, nil
	}

	if math.Abs(float64(v.now().Unix())-ts) > v.skew.Seconds() {
		return nil, credential.ReasonTimestampOutOfBound, nil
	}

	cred, err := v.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, credential.ReasonNotFound, nil
		}
		return nil, credential.ReasonNone, fmt.Errorf("looking up api key: %w", err)
	}

	expected, err := Sign(cred.APISecret, payload)
	if err != nil {
		return nil, credential.ReasonNone, err
	}

	if !hmac.Equal([]byte(expected), []byte(suppliedSignature)) {
		return nil, credential.ReasonBadHash, nil
	}

	return cred, credential.ReasonNone, nil
}

// timestamp extracts the "date" field as seconds since epoch. JSON
// bodies yield json.Number or float64; query strings yield strings.
func timestamp(payload map[string]any) (float64, bool) {
	raw, ok := payload["date"]
	if !ok || raw == nil {
		return 0, false
	}

	switch val := raw.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
