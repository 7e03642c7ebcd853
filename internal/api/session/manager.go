// Package session issues and resolves the opaque per-visitor identity slot.
// The cookie value is an HS256-signed wrapper around a random session id;
// the principal projection itself lives server-side in the session store.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// CookieName is the name of the session cookie.
const CookieName = "catalog_session"

const defaultTTL = 24 * time.Hour

// Manager binds the cookie codec to the server-side session store.
type Manager struct {
	store  ports.SessionStore
	secret []byte
	ttl    time.Duration
}

func NewManager(store ports.SessionStore, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// Issue creates a fresh session for p and returns the signed cookie token.
func (m *Manager) Issue(ctx context.Context, p domain.Principal) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Put(ctx, sid, p); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("issue session: sign token: %w", err)
	}
	return token, nil
}

// Resolve maps a cookie token to the principal it identifies. A missing,
// tampered, or expired token resolves to (nil, nil): anonymous, not an
// error. Only session-store failures are errors.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	sid, ok := m.sessionID(token)
	if !ok {
		return nil, nil
	}
	return m.store.Get(ctx, sid)
}

// Destroy invalidates the session behind the token. Unparseable tokens are
// ignored; destroying an already-absent session is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sid, ok := m.sessionID(token)
	if !ok {
		return nil
	}
	return m.store.Delete(ctx, sid)
}

func (m *Manager) sessionID(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// Cookie wraps a signed token in the session cookie.
func (m *Manager) Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie returns a cookie that clears the session slot client-side.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
