package integration

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestLockout_TenFailuresLockTheAccount(t *testing.T) {
	client := newSessionClient(t)
	account := signupAccount(t, client, "lockout@example.com", "password123")

	for i := 1; i <= testEnv.Policy.MaxAttempts; i++ {
		resp := postJSON(t, client, testEnv.BaseURL()+"/login", map[string]string{
			"email":    "lockout@example.com",
			"password": "wrongpass",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, resp.StatusCode)
		}

		stored, err := testEnv.Repo.GetByID(context.Background(), account.ID)
		if err != nil {
			t.Fatalf("attempt %d: reading stored state: %v", i, err)
		}
		if stored.FailedAttemptCount != i {
			t.Fatalf("attempt %d: counter = %d", i, stored.FailedAttemptCount)
		}
		if i < testEnv.Policy.MaxAttempts && stored.LockedUntil != nil {
			t.Fatalf("attempt %d: locked before the threshold", i)
		}
	}

	stored, err := testEnv.Repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("reading stored state: %v", err)
	}
	if stored.LockedUntil == nil {
		t.Fatal("threshold reached but account not locked")
	}
	want := time.Now().Add(testEnv.Policy.LockDuration)
	if diff := stored.LockedUntil.Sub(want); diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("LockedUntil = %v, want ~%v", stored.LockedUntil, want)
	}
}

func TestLockout_SuccessfulLoginResetsState(t *testing.T) {
	client := newSessionClient(t)
	account := signupAccount(t, client, "lockout-reset@example.com", "password123")

	for i := 0; i < 3; i++ {
		resp := postJSON(t, client, testEnv.BaseURL()+"/login", map[string]string{
			"email":    "lockout-reset@example.com",
			"password": "wrongpass",
		})
		resp.Body.Close()
	}

	resp := postJSON(t, client, testEnv.BaseURL()+"/login", map[string]string{
		"email":    "lockout-reset@example.com",
		"password": "password123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	stored, err := testEnv.Repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("reading stored state: %v", err)
	}
	if stored.FailedAttemptCount != 0 || stored.LockedUntil != nil {
		t.Errorf("state not reset: %d, %v", stored.FailedAttemptCount, stored.LockedUntil)
	}
}
