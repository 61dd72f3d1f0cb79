// Package session implements the session path owned by the HTTP
// collaborator: a signed cookie carries the credential ID between
// requests, and unauthenticated callers are redirected to the login
// page rather than hard-rejected.
//
// The cookie value is an HS256-signed token whose subject is the
// credential ID. The signature only protects cookie integrity; callers
// do not authenticate by presenting tokens of their own.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sentra-dev/gate/pkg/credential"
)

// DefaultCookieName is used when the manager is configured without one.
const DefaultCookieName = "gate_session"

// ErrNoSession is returned when the request carries no usable session
// cookie: absent, expired, or failing signature verification.
var ErrNoSession = errors.New("no session")

// Manager issues, reads, and clears session cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// Config holds session cookie settings.
type Config struct {
	// Secret signs session tokens. Required.
	Secret []byte

	// TTL bounds the session lifetime (default: 12h).
	TTL time.Duration

	// CookieName overrides DefaultCookieName.
	CookieName string

	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// NewManager creates a session manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.TTL == 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{
		secret:     cfg.Secret,
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

// Issue sets a session cookie for the authenticated credential.
func (m *Manager) Issue(w http.ResponseWriter, c *credential.Credential) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   c.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CredentialID extracts the credential ID from the request's session
// cookie. Returns ErrNoSession when the request is not in-session.
func (m *Manager) CredentialID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrNoSession
	}

	return claims.Subject, nil
}
