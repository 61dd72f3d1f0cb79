// Package credential defines the authenticable principal record, its
// validation and preparation rules, the repository contract, and the
// service that answers password-verification requests.
package credential

import "time"

// DefaultRoleID is assigned when a credential is prepared without an
// explicit role.
const DefaultRoleID = "account_user"

// Name holds the display attributes of a credential.
type Name struct {
	First string
	Last  string
}

// Credential is the authenticable principal record.
//
// Password carries the plaintext only between construction and Prepare;
// repositories persist PasswordHash and never the plaintext. Setting
// Password on an existing record marks the password as changed, and the
// next Prepare re-hashes it.
type Credential struct {
	ID                 string
	Email              string
	Name               Name
	Password           string
	PasswordHash       string
	RoleID             string
	APIKey             string
	APISecret          string
	FailedAttemptCount int
	LockedUntil        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Username returns the login identifier. It is always the email address.
func (c *Credential) Username() string {
	return c.Email
}

// FullName returns the display name, derived and never stored.
func (c *Credential) FullName() string {
	return c.Name.First + " " + c.Name.Last
}

// IsLocked reports whether the credential is locked at the given instant.
// A credential is locked when LockedUntil is set and still in the future.
func (c *Credential) IsLocked(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}

// Reason explains why a verification attempt did not yield a principal.
// The values 0–5 are stable and must not be reordered; callers map them
// to user-facing responses.
type Reason int

const (
	ReasonNotFound            Reason = 0
	ReasonPasswordIncorrect   Reason = 1
	ReasonMaxAttempts         Reason = 2 // reserved, not currently emitted
	ReasonNoTimestamp         Reason = 3
	ReasonTimestampOutOfBound Reason = 4
	ReasonBadHash             Reason = 5

	// ReasonNone marks outcomes that carry no business rejection, such as
	// a malformed authorization header. It is never sent on the wire.
	ReasonNone Reason = -1
)

// String returns a short stable label for logging and metrics.
func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonPasswordIncorrect:
		return "password_incorrect"
	case ReasonMaxAttempts:
		return "max_attempts"
	case ReasonNoTimestamp:
		return "no_timestamp"
	case ReasonTimestampOutOfBound:
		return "timestamp_out_of_bounds"
	case ReasonBadHash:
		return "bad_hash"
	default:
		return "none"
	}
}
