// Package session keeps bounded, expiring conversation memory keyed by an
// opaque session id. The backing store is pluggable: an in-process map by
// default, or Redis, MongoDB, or Postgres with a TTL; external backing
// errors fall back to the in-memory path rather than failing the request.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Defaults match the original deployment tuning.
const (
	DefaultMaxHistory = 5
	DefaultExpiry     = time.Hour
)

// Turn is one query/response record. Immutable once appended.
type Turn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	AgentUsed string    `json:"agent_used"`
	CreatedAt time.Time `json:"timestamp"`
}

// Session is the bounded history for one conversation.
type Session struct {
	ID           string    `json:"id"`
	History      []Turn    `json:"history"`
	AgentsUsed   []string  `json:"agents_used"`
	LastActivity time.Time `json:"last_updated"`
}

// Info is the session metadata surfaced by the boundary layer.
type Info struct {
	Exists          bool     `json:"exists"`
	TurnCount       int      `json:"turn_count"`
	AgentsUsed      []string `json:"agents_used"`
	DurationSeconds float64  `json:"duration_seconds"`
	LastUpdated     int64    `json:"last_updated"`
}

// Options configure a Manager.
type Options struct {
	MaxHistory int
	Expiry     time.Duration
	Logger     *slog.Logger
}

// Manager implements the session operations over a Store. It serializes
// its own read-modify-write cycles, but a get-context/add-interaction pair
// issued by two concurrent requests for the same id is not atomic: the
// last writer wins and at most one turn may be lost.
type Manager struct {
	store    Store
	fallback *MemoryStore

	maxHistory int
	expiry     time.Duration
	log        *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultExpiry
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fallback, ok := store.(*MemoryStore)
	if !ok {
		fallback = NewMemoryStore()
	}

	return &Manager{
		store:      store,
		fallback:   fallback,
		maxHistory: opts.MaxHistory,
		expiry:     opts.Expiry,
		log:        opts.Logger,
		now:        time.Now,
	}
}

// GetContext renders the stored turns as alternating User/AI lines, oldest
// first. Missing, empty, or expired sessions yield "". Expiry is detected
// lazily here and deletes the record as a side effect.
func (m *Manager) GetContext(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getSession(ctx, sessionID)
	if s == nil {
		return ""
	}
	if m.expired(s) {
		m.log.Info("session expired, clearing history", "session_id", sessionID)
		m.deleteSession(ctx, sessionID)
		return ""
	}
	if len(s.History) == 0 {
		return ""
	}

	var b strings.Builder
	for _, turn := range s.History {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", turn.Query, turn.Response)
	}
	return b.String()
}

// AddInteraction appends a turn, creating the session on first use.
// History is truncated to the most recent maxHistory turns, oldest first.
func (m *Manager) AddInteraction(ctx context.Context, sessionID, query, response, agentUsed string) {
	if sessionID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := m.getSession(ctx, sessionID)
	if s == nil || m.expired(s) {
		s = &Session{ID: sessionID}
	}

	s.History = append(s.History, Turn{
		Query:     query,
		Response:  response,
		AgentUsed: agentUsed,
		CreatedAt: now,
	})
	if len(s.History) > m.maxHistory {
		s.History = s.History[len(s.History)-m.maxHistory:]
	}

	if agentUsed != "" && !contains(s.AgentsUsed, agentUsed) {
		s.AgentsUsed = append(s.AgentsUsed, agentUsed)
	}
	s.LastActivity = now

	m.putSession(ctx, s)
}

// Info reports session metadata. Expired sessions report non-existence.
func (m *Manager) Info(ctx context.Context, sessionID string) Info {
	if sessionID == "" {
		return Info{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getSession(ctx, sessionID)
	if s == nil {
		return Info{}
	}
	if m.expired(s) {
		m.deleteSession(ctx, sessionID)
		return Info{}
	}

	info := Info{
		Exists:      true,
		TurnCount:   len(s.History),
		AgentsUsed:  append([]string{}, s.AgentsUsed...),
		LastUpdated: s.LastActivity.Unix(),
	}
	if len(s.History) > 0 {
		info.DurationSeconds = m.now().Sub(s.History[0].CreatedAt).Seconds()
	}
	return info
}

// Clear resets the history in place, keeping the session record. It
// reports whether the session existed.
func (m *Manager) Clear(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getSession(ctx, sessionID)
	if s == nil || m.expired(s) {
		return false
	}

	s.History = nil
	s.LastActivity = m.now()
	m.putSession(ctx, s)
	return true
}

// CleanupExpired sweeps the in-memory store. External backings expire
// keys on their own via TTL.
func (m *Manager) CleanupExpired() int {
	removed := m.fallback.DeleteExpired(m.expiry)
	if removed > 0 {
		m.log.Info("cleaned up expired sessions", "count", removed)
	}
	return removed
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.LastActivity) > m.expiry
}

func (m *Manager) getSession(ctx context.Context, id string) *Session {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		m.log.Error("session store get failed, using in-memory fallback", "session_id", id, "error", err)
		s, _ = m.fallback.Get(ctx, id)
	}
	return s
}

func (m *Manager) putSession(ctx context.Context, s *Session) {
	if err := m.store.Put(ctx, s, m.expiry); err != nil {
		m.log.Error("session store put failed, using in-memory fallback", "session_id", s.ID, "error", err)
		_ = m.fallback.Put(ctx, s, m.expiry)
	}
}

func (m *Manager) deleteSession(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Error("session store delete failed, using in-memory fallback", "session_id", id, "error", err)
		_ = m.fallback.Delete(ctx, id)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
