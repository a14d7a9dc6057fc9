package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sapbridge/backend/internal/infrastructure/sapclient"
)

// InMemorySessionStore implements sapclient.SessionStore with a local copy.
// This is suitable for single-instance deployments and testing.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	session   *sapclient.Session
	expiresAt time.Time
}

// NewInMemorySessionStore creates a new in-memory session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{}
}

// Load returns the cached session, or (nil, nil) when none is cached or the
// cache entry outlived its TTL.
func (s *InMemorySessionStore) Load(ctx context.Context) (*sapclient.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || time.Now().After(s.expiresAt) {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

// Save caches the session with the shared cache TTL.
func (s *InMemorySessionStore) Save(ctx context.Context, session *sapclient.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.session = &copied
	s.expiresAt = time.Now().Add(sapclient.SessionCacheTTL)
	return nil
}

// Clear drops the cached session.
func (s *InMemorySessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return nil
}

var _ sapclient.SessionStore = (*InMemorySessionStore)(nil)
