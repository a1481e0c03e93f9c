// Package session manages gateway sessions: the backend bearer token, the
// authenticated user profile, and the session's cart. Sessions are written
// on login/register, cleared on logout, and carry the cart between
// requests; nothing outlives the session.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/vrksatech/market/internal/domain"
)

// CookieName is the gateway session cookie.
const CookieName = "market_session"

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = &domain.Error{Code: domain.ENOTFOUND, Message: "Session not found"}

// Session is one browser session's state.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"token,omitempty"`
	User      *domain.User `json:"user,omitempty"`
	Cart      domain.Cart  `json:"cart"`
	CreatedAt time.Time    `json:"created_at"`
}

// Authenticated reports whether the session holds a backend credential.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Store persists sessions keyed by their opaque id.
type Store interface {
	// Get returns the session for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Save upserts the session and refreshes its TTL.
	Save(ctx context.Context, sess *Session) error

	// Delete removes the session. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
}

// NewID generates a cryptographically secure session id:
// 32 random bytes, base64 URL-safe.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates an empty session with a fresh id.
func New() (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}, nil
}
