package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/auth/session"
	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/observability"
	"github.com/sentra-dev/gate/pkg/storage"
)

// Handlers exposes the interactive login flow and account endpoints.
type Handlers struct {
	Service  *credential.Service
	Sessions *session.Manager
}

// loginRequest is the JSON body of POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// principalView is the JSON shape of an authenticated principal.
// Password hash and API secret never leave the service.
type principalView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   string `json:"role_id"`
	APIKey   string `json:"api_key"`
}

func viewOf(c *credential.Credential) principalView {
	return principalView{
		ID:       c.ID,
		Email:    c.Email,
		FullName: c.FullName(),
		RoleID:   c.RoleID,
		APIKey:   c.APIKey,
	}
}

// Login runs the password path and opens a session on success.
// Business rejections are a uniform 401 so the response does not reveal
// whether the email exists.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	principal, reason, err := h.Service.VerifyPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("login verification failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		observability.VerificationsTotal.WithLabelValues("password", "error").Inc()
		writeError(w, http.StatusInternalServerError, "server_error", "verification unavailable")
		return
	}
	if principal == nil {
		observability.VerificationsTotal.WithLabelValues("password", "denied").Inc()
		observability.RejectionsTotal.WithLabelValues("password", reason.String()).Inc()
		writeError(w, http.StatusUnauthorized, "unauthorized", "the email or password that you provided was incorrect")
		return
	}

	if err := h.Sessions.Issue(w, principal); err != nil {
		slog.Error("issuing session", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "could not open session")
		return
	}

	observability.VerificationsTotal.WithLabelValues("password", "granted").Inc()
	writeJSON(w, http.StatusOK, viewOf(principal))
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// signupRequest is the JSON body of POST /signup.
type signupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// signupResponse returns the issued API credentials. The secret is shown
// exactly once, at creation.
type signupResponse struct {
	principalView
	APISecret string `json:"api_secret"`
}

// Signup creates a credential through the preparation pipeline.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	created, err := h.Service.Register(r.Context(), &credential.Credential{
		Email:    req.Email,
		Name:     credential.Name{First: req.FirstName, Last: req.LastName},
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			writeError(w, http.StatusConflict, "conflict", "an account with these details already exists")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		principalView: viewOf(created),
		APISecret:     created.APISecret,
	})
}

// WhoAmI returns the principal injected by the verification middleware.
func (h *Handlers) WhoAmI(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(principal))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"type": errType, "message": message},
	})
}
