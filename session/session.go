// Package session implements the per-client session: a signed cookie holding
// the logged-in username and a queue of one-shot flash messages. The cookie
// payload is an HS256-signed token with a fixed expiry, so the client can
// hold the state but cannot tamper with it. The session is renewed on every
// save; the expiry window therefore runs from the last renewal.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Flash is a one-shot status message consumed by the next rendered page.
// Category is one of "success", "error", "info".
type Flash struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Session is the typed session state threaded through each request.
// A non-empty Username means "logged in".
type Session struct {
	Username string
	Flashes  []Flash
}

// LoggedIn reports whether the session belongs to an authenticated user.
func (s *Session) LoggedIn() bool {
	return s.Username != ""
}

// AddFlash queues a one-shot message for the next rendered page.
func (s *Session) AddFlash(text, category string) {
	s.Flashes = append(s.Flashes, Flash{Text: text, Category: category})
}

// ConsumeFlashes returns the queued flashes and clears the queue. Flashes are
// displayed exactly once.
func (s *Session) ConsumeFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// ClearFlashes discards any queued flashes without displaying them.
func (s *Session) ClearFlashes() {
	s.Flashes = nil
}

// Clear resets the session to the anonymous state. Clearing a session that
// holds no user is not an error; logout is idempotent.
func (s *Session) Clear() {
	s.Username = ""
	s.Flashes = nil
}

// claims is the signed cookie payload.
type claims struct {
	Username string  `json:"username,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs, verifies and renews session cookies.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

// NewManager creates a session Manager signing with the given secret.
// lifetime is the fixed window after which an unrenewed session expires.
func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Load extracts the session from the request cookie. A missing, malformed,
// tampered or expired cookie yields a fresh anonymous session rather than an
// error: every request has a session, it just may not hold a user.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return &Session{}
	}

	parsed := &claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return &Session{}
	}

	return &Session{
		Username: parsed.Username,
		Flashes:  parsed.Flashes,
	}
}

// Save signs the session and sets it as the response cookie, renewing the
// expiry window. The cookie itself carries no Max-Age, so it is a browser
// session cookie (not permanent); the signed expiry inside the payload is
// what bounds its validity.
func (m *Manager) Save(w http.ResponseWriter, sess *Session) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: sess.Username,
		Flashes:  sess.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
