package session

import (
	"context"
	"sync"
	"time"
)

// Store persists sessions. Get returns (nil, nil) when the id is unknown.
// Implementations may honor the ttl natively (Redis, Mongo, Postgres) or
// ignore it and rely on the Manager's lazy expiry (in-memory).
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the default in-process backing. It also serves as the
// fallback target when an external store errors.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	cp.History = append([]Turn(nil), sess.History...)
	cp.AgentsUsed = append([]string(nil), sess.AgentsUsed...)
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *Session, _ time.Duration) error {
	cp := *sess
	cp.History = append([]Turn(nil), sess.History...)
	cp.AgentsUsed = append([]string(nil), sess.AgentsUsed...)

	s.mu.Lock()
	s.sessions[sess.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// DeleteExpired removes every session idle longer than expiry and returns
// how many were removed.
func (s *MemoryStore) DeleteExpired(expiry time.Duration) int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > expiry {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

var _ Store = (*MemoryStore)(nil)
