package basic

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/lockout"
	"github.com/sentra-dev/gate/pkg/password"
	"github.com/sentra-dev/gate/pkg/storage/memory"
)

func setupStrategy(t *testing.T) *Strategy {
	t.Helper()

	repo := memory.New(lockout.Default())
	svc := credential.NewService(repo, password.NewHasher(0), credential.RandomIssuer{})

	_, err := svc.Register(context.Background(), &credential.Credential{
		Email:    "u@example.com",
		Name:     credential.Name{First: "Uli", Last: "Example"},
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("registering credential: %v", err)
	}

	return NewStrategy(svc)
}

func basicRequest(email, pass string) *http.Request {
	r, _ := http.NewRequest("GET", "/basic/whoami", nil)
	token := base64.StdEncoding.EncodeToString([]byte(email + ":" + pass))
	r.Header.Set("Authorization", "Basic "+token)
	return r
}

func TestStrategy_CorrectPassword(t *testing.T) {
	s := setupStrategy(t)

	outcome := s.Verify(context.Background(), basicRequest("u@example.com", "password123"))

	if outcome.Decision != auth.Granted {
		t.Fatalf("outcome = %+v, want granted", outcome)
	}
	if outcome.Principal.Email != "u@example.com" {
		t.Errorf("principal email = %q", outcome.Principal.Email)
	}
}

func TestStrategy_WrongPassword(t *testing.T) {
	s := setupStrategy(t)

	outcome := s.Verify(context.Background(), basicRequest("u@example.com", "wrongpass"))

	if outcome.Decision != auth.Denied {
		t.Fatalf("outcome = %+v, want denied", outcome)
	}
	if outcome.Reason != credential.ReasonPasswordIncorrect {
		t.Errorf("reason = %v, want ReasonPasswordIncorrect", outcome.Reason)
	}
}

func TestStrategy_UnknownEmail(t *testing.T) {
	s := setupStrategy(t)

	outcome := s.Verify(context.Background(), basicRequest("nobody@example.com", "password123"))

	if outcome.Decision != auth.Denied {
		t.Fatalf("outcome = %+v, want denied", outcome)
	}
	if outcome.Reason != credential.ReasonNotFound {
		t.Errorf("reason = %v, want ReasonNotFound", outcome.Reason)
	}
}

func TestStrategy_MissingHeader(t *testing.T) {
	s := setupStrategy(t)

	r, _ := http.NewRequest("GET", "/basic/whoami", nil)
	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Denied {
		t.Errorf("outcome = %+v, want denied", outcome)
	}
}
