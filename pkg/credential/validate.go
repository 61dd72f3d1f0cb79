package credential

import (
	"errors"
	"fmt"
	"regexp"
)

// MinPasswordLength is enforced when a plaintext password is supplied.
const MinPasswordLength = 8

var (
	emailPattern     = regexp.MustCompile(`^.+@.+\..+$`)
	apiKeyPattern    = regexp.MustCompile(`^[A-Fa-f0-9]{24}$`)
	apiSecretPattern = regexp.MustCompile(`^[A-Fa-f0-9]{48}$`)
)

// Validate checks a prepared credential against the record invariants.
// It is meant to run after Prepare, immediately before a repository
// write, so the role default, password hash, and API credentials must
// already be in place.
func (c *Credential) Validate() error {
	var errs []error

	if c.Email == "" {
		errs = append(errs, fmt.Errorf("email is required"))
	} else if !emailPattern.MatchString(c.Email) {
		errs = append(errs, fmt.Errorf("email %q does not look like an address", c.Email))
	}

	if c.Name.First == "" {
		errs = append(errs, fmt.Errorf("first name is required"))
	}
	if c.Name.Last == "" {
		errs = append(errs, fmt.Errorf("last name is required"))
	}

	if c.PasswordHash == "" {
		errs = append(errs, fmt.Errorf("password hash is required"))
	}

	if c.RoleID == "" {
		errs = append(errs, fmt.Errorf("role id is required"))
	}

	if !apiKeyPattern.MatchString(c.APIKey) {
		errs = append(errs, fmt.Errorf("api key must be 24 hex characters"))
	}
	if !apiSecretPattern.MatchString(c.APISecret) {
		errs = append(errs, fmt.Errorf("api secret must be 48 hex characters"))
	}

	if c.FailedAttemptCount < 0 {
		errs = append(errs, fmt.Errorf("failed attempt count must be >= 0, got %d", c.FailedAttemptCount))
	}

	return errors.Join(errs...)
}
