package credential

import "fmt"

// PasswordHasher is the one-way hashing contract used by preparation and
// verification. Verify returns (false, nil) on a clean mismatch and an
// error only when the digest itself is malformed.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// Prepare runs the ordered preparation pipeline on a credential:
// assign the default role, hash the password if it changed, and issue
// API credentials if absent. Callers invoke it immediately before a
// repository write; nothing runs implicitly at the storage layer.
//
// Prepare is idempotent: a second run on an already-prepared credential
// changes nothing.
func Prepare(c *Credential, hasher PasswordHasher, issuer Issuer) error {
	assignDefaultRole(c)

	if err := hashPasswordIfChanged(c, hasher); err != nil {
		return err
	}

	if err := issueCredentialsIfAbsent(c, issuer); err != nil {
		return err
	}

	return c.Validate()
}

func assignDefaultRole(c *Credential) {
	if c.RoleID == "" {
		c.RoleID = DefaultRoleID
	}
}

// hashPasswordIfChanged replaces the plaintext with its digest. A set
// Password field is the change marker; existing hashes are never
// recomputed otherwise.
func hashPasswordIfChanged(c *Credential, hasher PasswordHasher) error {
	if c.Password == "" {
		return nil
	}

	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	digest, err := hasher.Hash(c.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	c.PasswordHash = digest
	c.Password = ""
	return nil
}

// issueCredentialsIfAbsent generates the API key/secret pair when either
// field is empty. A credential with both fields present keeps them
// untouched for the rest of its life.
func issueCredentialsIfAbsent(c *Credential, issuer Issuer) error {
	if c.APIKey != "" && c.APISecret != "" {
		return nil
	}

	key, secret, err := issuer.Issue()
	if err != nil {
		return fmt.Errorf("issuing api credentials: %w", err)
	}

	c.APIKey = key
	c.APISecret = secret
	return nil
}
