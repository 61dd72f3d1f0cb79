package hmacsig

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/credential"
)

func signedHeader(t *testing.T, payload map[string]any) string {
	t.Helper()

	sig, err := Sign(testAPISecret, payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(testAPIKey + ":" + sig))
	return "Basic " + token
}

func TestStrategy_SignedGetRequest(t *testing.T) {
	s := NewStrategy(setupVerifier(t))

	// Query-string values arrive as strings on both sides.
	date := strconv.FormatInt(time.Now().Unix(), 10)
	payload := map[string]any{"flim": "flam", "date": date}

	query := url.Values{"flim": {"flam"}, "date": {date}}
	r, _ := http.NewRequest("GET", "/resource?"+query.Encode(), nil)
	r.Header.Set("Authorization", signedHeader(t, payload))

	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Granted {
		t.Fatalf("outcome = %+v, want granted", outcome)
	}
	if outcome.Principal.APIKey != testAPIKey {
		t.Errorf("principal api key = %q", outcome.Principal.APIKey)
	}
}

func TestStrategy_SignedPostBody(t *testing.T) {
	s := NewStrategy(setupVerifier(t))

	payload := map[string]any{"flim": "flam", "date": time.Now().Unix()}
	body, _ := json.Marshal(payload)

	r, _ := http.NewRequest("POST", "/resource", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", signedHeader(t, payload))

	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Granted {
		t.Fatalf("outcome = %+v, want granted", outcome)
	}
}

func TestStrategy_TamperedPostBody(t *testing.T) {
	s := NewStrategy(setupVerifier(t))

	payload := map[string]any{"flim": "flam", "date": time.Now().Unix()}
	header := signedHeader(t, payload)

	payload["flim"] = "flum"
	body, _ := json.Marshal(payload)

	r, _ := http.NewRequest("POST", "/resource", bytes.NewReader(body))
	r.Header.Set("Authorization", header)

	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Denied {
		t.Fatalf("outcome = %+v, want denied", outcome)
	}
	if outcome.Reason != credential.ReasonBadHash {
		t.Errorf("reason = %v, want ReasonBadHash", outcome.Reason)
	}
}

func TestStrategy_MalformedAuthorization(t *testing.T) {
	s := NewStrategy(setupVerifier(t))

	r, _ := http.NewRequest("GET", "/resource", nil)
	r.Header.Set("Authorization", "Basic not-base64!!")

	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Denied {
		t.Errorf("outcome = %+v, want denied", outcome)
	}
}

func TestStrategy_UnparseableBody(t *testing.T) {
	s := NewStrategy(setupVerifier(t))

	r, _ := http.NewRequest("POST", "/resource", bytes.NewReader([]byte("{not json")))
	token := base64.StdEncoding.EncodeToString([]byte(testAPIKey + ":" + fmt.Sprintf("%064d", 0)))
	r.Header.Set("Authorization", "Basic "+token)

	outcome := s.Verify(context.Background(), r)

	if outcome.Decision != auth.Denied {
		t.Fatalf("outcome = %+v, want denied", outcome)
	}
	if outcome.Reason != credential.ReasonBadHash {
		t.Errorf("reason = %v, want ReasonBadHash", outcome.Reason)
	}
}
