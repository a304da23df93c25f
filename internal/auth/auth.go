// Package auth provides cookie-based admin sessions backed by Redis.
// Sessions are opaque random IDs; the session payload lives server-side
// under a TTL, so logout and expiry need no client cooperation.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samedayramps/tiny-church-app/internal/config"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
)

// ErrNoSession is returned when a session ID is unknown or expired.
var ErrNoSession = errors.New("no valid session")

const sessionKeyPrefix = "session:"

// Session is the server-side payload for one authenticated admin.
type Session struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager creates, looks up, and destroys sessions.
type Manager struct {
	rdb        *redis.Client
	cookieName string
	ttl        time.Duration
	adminEmail string
	adminPass  string
}

// NewManager creates a session manager over the given Redis client.
func NewManager(rdb *redis.Client, cfg config.AuthConfig) *Manager {
	return &Manager{
		rdb:        rdb,
		cookieName: cfg.CookieName,
		ttl:        cfg.SessionTTL(),
		adminEmail: cfg.AdminEmail,
		adminPass:  cfg.AdminPassword,
	}
}

// Authenticate checks the admin credential. Comparison is constant time.
func (m *Manager) Authenticate(email, password string) bool {
	if m.adminEmail == "" || m.adminPass == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(m.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.adminPass)) == 1
	return emailOK && passOK
}

// Create stores a new session for the given email and returns its ID.
func (m *Manager) Create(ctx context.Context, email string) (string, error) {
	id, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now()
	payload, err := json.Marshal(Session{
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := m.rdb.Set(ctx, sessionKeyPrefix+id, payload, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get returns the session for an ID, or ErrNoSession.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	data, err := m.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Destroy removes a session. Destroying an unknown ID is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// SetCookie attaches the session cookie to a response.
func (m *Manager) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the session referenced by the request cookie.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return m.Get(r.Context(), c.Value)
}

// SessionID returns the raw session ID from the request cookie, if any.
func (m *Manager) SessionID(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

type contextKey struct{}

// SessionFrom returns the session stored on the request context by
// RequireSession, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// RequireSession rejects requests without a valid session cookie with a
// 401 and stores the session on the context for handlers downstream.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.FromRequest(r)
		if err != nil {
			httputil.Unauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
