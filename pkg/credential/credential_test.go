package credential

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func validCredential() *Credential {
	return &Credential{
		Email:        "u@example.com",
		Name:         Name{First: "Uli", Last: "Example"},
		PasswordHash: "$2a$06$abcdefghijklmnopqrstuv",
		RoleID:       DefaultRoleID,
		APIKey:       "0123456789abcdef01234567",
		APISecret:    "0123456789abcdef0123456789abcdef0123456789abcdef",
	}
}

func TestDerivedAccessors(t *testing.T) {
	c := validCredential()

	if c.Username() != "u@example.com" {
		t.Errorf("Username = %q, want email", c.Username())
	}
	if c.FullName() != "Uli Example" {
		t.Errorf("FullName = %q, want %q", c.FullName(), "Uli Example")
	}
}

func TestIsLocked(t *testing.T) {
	now := time.Now()
	c := validCredential()

	if c.IsLocked(now) {
		t.Error("IsLocked = true with no lock set")
	}

	future := now.Add(time.Hour)
	c.LockedUntil = &future
	if !c.IsLocked(now) {
		t.Error("IsLocked = false with future lock")
	}

	past := now.Add(-time.Hour)
	c.LockedUntil = &past
	if c.IsLocked(now) {
		t.Error("IsLocked = true with expired lock")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Credential)
		wantErr string
	}{
		{"valid", func(c *Credential) {}, ""},
		{"missing email", func(c *Credential) { c.Email = "" }, "email is required"},
		{"bad email", func(c *Credential) { c.Email = "nonsense" }, "does not look like an address"},
		{"missing first name", func(c *Credential) { c.Name.First = "" }, "first name"},
		{"missing last name", func(c *Credential) { c.Name.Last = "" }, "last name"},
		{"missing hash", func(c *Credential) { c.PasswordHash = "" }, "password hash"},
		{"missing role", func(c *Credential) { c.RoleID = "" }, "role id"},
		{"short api key", func(c *Credential) { c.APIKey = "abc123" }, "24 hex"},
		{"non-hex api key", func(c *Credential) { c.APIKey = strings.Repeat("z", 24) }, "24 hex"},
		{"short api secret", func(c *Credential) { c.APISecret = "abc123" }, "48 hex"},
		{"negative attempts", func(c *Credential) { c.FailedAttemptCount = -1 }, ">= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCredential()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate: want error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRandomIssuer_Shapes(t *testing.T) {
	keyPattern := regexp.MustCompile(`^[A-Fa-f0-9]{24}$`)
	secretPattern := regexp.MustCompile(`^[A-Fa-f0-9]{48}$`)

	key, secret, err := RandomIssuer{}.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if !keyPattern.MatchString(key) {
		t.Errorf("api key %q does not match ^[A-Fa-f0-9]{24}$", key)
	}
	if !secretPattern.MatchString(secret) {
		t.Errorf("api secret %q does not match ^[A-Fa-f0-9]{48}$", secret)
	}
}

func TestRandomIssuer_IndependentDraws(t *testing.T) {
	k1, s1, err := RandomIssuer{}.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	k2, s2, err := RandomIssuer{}.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if k1 == k2 || s1 == s2 {
		t.Error("two issuances produced identical material")
	}
}
