package httpserver

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookie  = "gm_session"
	sessionSubject = "admin"
)

// Session is the per-request authentication state.
type Session struct {
	Authenticated bool
	Expires       time.Time
}

type sessionKey struct{}

func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// SessionManager keeps the admin session in an HS256-signed cookie.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time

	// revoked holds logged-out token ids until they expire anyway.
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now, revoked: map[string]time.Time{}}
}

// Issue marks the client as authenticated.
func (m *SessionManager) Issue(w http.ResponseWriter) error {
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	var id [16]byte
	if _, err := crand.Read(id[:]); err != nil {
		return err
	}
	claims := jwt.RegisteredClaims{
		ID:        hex.EncodeToString(id[:]),
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear logs the client out and revokes the presented token in this process.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if claims, err := m.claims(c.Value); err == nil {
			m.revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

var errBadSession = errors.New("invalid session")

func (m *SessionManager) claims(raw string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadSession
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithSubject(sessionSubject), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid || claims.ID == "" {
		return jwt.RegisteredClaims{}, errBadSession
	}
	return claims, nil
}

func (m *SessionManager) parse(raw string) (Session, error) {
	claims, err := m.claims(raw)
	if err != nil || m.isRevoked(claims.ID) {
		return Session{}, errBadSession
	}
	return Session{Authenticated: true, Expires: claims.ExpiresAt.Time}, nil
}

func (m *SessionManager) revoke(id string, exp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, until := range m.revoked {
		if now.After(until) {
			delete(m.revoked, k)
		}
	}
	m.revoked[id] = exp
}

func (m *SessionManager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

// Load puts the request's Session into its context.
func (m *SessionManager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s Session
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			if parsed, err := m.parse(c.Value); err == nil {
				s = parsed
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

// RequireAdmin redirects unauthenticated requests to the login form.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
