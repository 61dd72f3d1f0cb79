package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Byte lengths of the raw random material behind the API credential pair.
// Hex encoding doubles them: a 24-character key and a 48-character secret.
const (
	apiKeyBytes    = 12
	apiSecretBytes = 24
)

// Issuer generates API key/secret pairs. A pair is issued exactly once
// per credential; callers must skip issuance when both fields are
// already present.
type Issuer interface {
	Issue() (apiKey, apiSecret string, err error)
}

// RandomIssuer draws the pair from crypto/rand.
type RandomIssuer struct{}

var _ Issuer = RandomIssuer{}

// Issue returns a fresh API key and secret from two independent
// cryptographically strong random sequences.
func (RandomIssuer) Issue() (string, string, error) {
	key := make([]byte, apiKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return "", "", fmt.Errorf("generating api key: %w", err)
	}

	secret := make([]byte, apiSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", "", fmt.Errorf("generating api secret: %w", err)
	}

	return hex.EncodeToString(key), hex.EncodeToString(secret), nil
}
