package sapclient

import (
	"context"
	"time"
)

const (
	// sessionLifetime is the Service Layer's own session timeout.
	sessionLifetime = 30 * time.Minute
	// sessionGrace is subtracted from the expiry when judging validity, so a
	// session is never used while it is about to lapse mid-request.
	sessionGrace = 5 * time.Minute
	// SessionCacheTTL is the TTL for the shared session cache; it stays
	// below the Service Layer's 30 minute timeout to leave margin.
	SessionCacheTTL = 25 * time.Minute

	// sessionCookieName is the cookie carrying the session id.
	sessionCookieName = "B1SESSION"
)

// Session is the cookie-based Service Layer session.
type Session struct {
	SessionID string            `json:"session_id"`
	Cookies   map[string]string `json:"cookies"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ValidAt reports whether the session can still be used at the given
// instant, applying the grace window.
func (s *Session) ValidAt(now time.Time) bool {
	if s == nil || s.SessionID == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(s.ExpiresAt.Add(-sessionGrace))
}

// SessionStore persists the session across processes and restarts. Load
// returns (nil, nil) when no session is cached.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
