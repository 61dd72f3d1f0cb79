package hmacsig

import (
	"context"
	"testing"
	"time"

	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/lockout"
	"github.com/sentra-dev/gate/pkg/storage/memory"
)

const (
	testAPIKey    = "0123456789abcdef01234567"
	testAPISecret = "0123456789abcdef0123456789abcdef0123456789abcdef"
)

func setupVerifier(t *testing.T) *Verifier {
	t.Helper()

	repo := memory.New(lockout.Default())
	_, err := repo.Create(context.Background(), &credential.Credential{
		Email:        "m2m@example.com",
		Name:         credential.Name{First: "Machine", Last: "Client"},
		PasswordHash: "unused",
		RoleID:       credential.DefaultRoleID,
		APIKey:       testAPIKey,
		APISecret:    testAPISecret,
	})
	if err != nil {
		t.Fatalf("seeding credential: %v", err)
	}

	return NewVerifier(repo)
}

func TestVerify_ValidSignature(t *testing.T) {
	v := setupVerifier(t)
	payload := map[string]any{"flim": "flam", "date": time.Now().Unix()}

	sig, err := Sign(testAPISecret, payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	principal, reason, err := v.Verify(context.Background(), testAPIKey, sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal == nil {
		t.Fatalf("principal = nil, reason = %v", reason)
	}
	if principal.APIKey != testAPIKey {
		t.Errorf("principal api key = %q", principal.APIKey)
	}
}

func TestVerify_MissingTimestamp(t *testing.T) {
	v := setupVerifier(t)
	payload := map[string]any{"flim": "flam"}

	sig, _ := Sign(testAPISecret, payload)
	principal, reason, err := v.Verify(context.Background(), testAPIKey, sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal != nil {
		t.Fatal("principal returned without timestamp")
	}
	if reason != credential.ReasonNoTimestamp {
		t.Errorf("reason = %v, want ReasonNoTimestamp", reason)
	}
}

func TestVerify_StaleTimestamp(t *testing.T) {
	v := setupVerifier(t)

	for _, shift := range []time.Duration{-4 * time.Minute, 4 * time.Minute} {
		payload := map[string]any{"date": time.Now().Add(shift).Unix()}
		sig, _ := Sign(testAPISecret, payload)

		principal, reason, err := v.Verify(context.Background(), testAPIKey, sig, payload)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if principal != nil {
			t.Fatalf("principal returned with %v timestamp shift", shift)
		}
		if reason != credential.ReasonTimestampOutOfBound {
			t.Errorf("shift %v: reason = %v, want ReasonTimestampOutOfBound", shift, reason)
		}
	}
}

func TestVerify_TimestampJustInsideWindow(t *testing.T) {
	v := setupVerifier(t)
	payload := map[string]any{"date": time.Now().Add(-2 * time.Minute).Unix()}

	sig, _ := Sign(testAPISecret, payload)
	principal, reason, err := v.Verify(context.Background(), testAPIKey, sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal == nil {
		t.Errorf("rejected inside freshness window, reason = %v", reason)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	v := setupVerifier(t)
	payload := map[string]any{"flim": "flam", "date": time.Now().Unix()}

	sig, _ := Sign(testAPISecret, payload)

	// Add a field after signing; the serialized form changes, so the
	// expected signature changes.
	payload["extra"] = 1

	principal, reason, err := v.Verify(context.Background(), testAPIKey, sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal != nil {
		t.Fatal("principal returned for tampered payload")
	}
	if reason != credential.ReasonBadHash {
		t.Errorf("reason = %v, want ReasonBadHash", reason)
	}
}

func TestVerify_UnknownAPIKey(t *testing.T) {
	v := setupVerifier(t)
	payload := map[string]any{"date": time.Now().Unix()}

	// Structurally valid signature under some other secret.
	sig, _ := Sign("deadbeef", payload)

	principal, reason, err := v.Verify(context.Background(), "ffffffffffffffffffffffff", sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal != nil {
		t.Fatal("principal returned for unknown api key")
	}
	if reason != credential.ReasonNotFound {
		t.Errorf("reason = %v, want ReasonNotFound", reason)
	}
}

func TestVerify_StringTimestamp(t *testing.T) {
	v := setupVerifier(t)

	// Query-string payloads carry the timestamp as a numeric string.
	payload := map[string]any{"date": "1"}
	sig, _ := Sign(testAPISecret, payload)

	frozen := NewVerifier(v.repo, WithClock(func() time.Time { return time.Unix(1, 0) }))

	principal, reason, err := frozen.Verify(context.Background(), testAPIKey, sig, payload)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal == nil {
		t.Errorf("string timestamp rejected, reason = %v", reason)
	}
}

func TestSign_Deterministic(t *testing.T) {
	payload := map[string]any{"b": "2", "a": "1", "date": int64(1700000000)}

	first, err := Sign(testAPISecret, payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	second, err := Sign(testAPISecret, payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if first != second {
		t.Error("canonical signature is not deterministic")
	}
	if len(first) != 64 {
		t.Errorf("signature length = %d, want 64 hex chars", len(first))
	}
}
