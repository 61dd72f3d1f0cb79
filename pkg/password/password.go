// Package password provides the bcrypt-backed one-way password hasher.
// The salt is generated per call and embedded in the digest, so
// verification needs no separate salt storage, and the comparison does
// not leak prefix-match timing.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is deliberately low; tune it per deployment.
const DefaultCost = 6

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost factor.
// A cost of 0 selects DefaultCost.
func NewHasher(cost int) Hasher {
	if cost == 0 {
		cost = DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash computes a salted, iterated digest of plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is
// (false, nil); an error means the stored digest is malformed, never
// that the guess was wrong.
func (h Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("malformed password digest: %w", err)
	}
}
