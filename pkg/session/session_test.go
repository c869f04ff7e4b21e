package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(NewMemoryStore(), Options{MaxHistory: 3, Expiry: time.Hour})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestGetContextUnknownSession(t *testing.T) {
	m, _ := newTestManager(t)
	if got := m.GetContext(context.Background(), "never-seen"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := m.GetContext(context.Background(), ""); got != "" {
		t.Errorf("empty id: got %q, want empty", got)
	}
}

func TestAddInteractionAndContextOrder(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	m.AddInteraction(ctx, "s1", "first question", "first answer", "Math Tutor")
	m.AddInteraction(ctx, "s1", "second question", "second answer", "Physics Tutor")

	got := m.GetContext(ctx, "s1")
	want := "User: first question\nAI: first answer\nUser: second question\nAI: second answer\n"
	if got != want {
		t.Errorf("context = %q, want %q", got, want)
	}
}

func TestHistoryBoundIsFIFO(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		m.AddInteraction(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), "Math Tutor")
	}

	info := m.Info(ctx, "s1")
	if info.TurnCount != 3 {
		t.Fatalf("turn count = %d, want 3", info.TurnCount)
	}

	got := m.GetContext(ctx, "s1")
	if strings.Contains(got, "q1") || strings.Contains(got, "q2") {
		t.Errorf("oldest turns should be evicted, got %q", got)
	}
	if !strings.Contains(got, "q3") || !strings.Contains(got, "q5") {
		t.Errorf("recent turns missing, got %q", got)
	}
}

func TestExpiryIsLazyAndDeletes(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	m.AddInteraction(ctx, "s1", "q", "a", "Math Tutor")
	*now = now.Add(61 * time.Minute)

	if got := m.GetContext(ctx, "s1"); got != "" {
		t.Errorf("expired session context = %q, want empty", got)
	}
	if info := m.Info(ctx, "s1"); info.Exists {
		t.Errorf("expired session should not exist after read")
	}
}

func TestInfo(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	if info := m.Info(ctx, "s1"); info.Exists {
		t.Fatalf("unknown session reported as existing")
	}

	m.AddInteraction(ctx, "s1", "q1", "a1", "Math Tutor")
	*now = now.Add(2 * time.Minute)
	m.AddInteraction(ctx, "s1", "q2", "a2", "Math Tutor")
	m.AddInteraction(ctx, "s1", "q3", "a3", "Physics Tutor")

	info := m.Info(ctx, "s1")
	if !info.Exists {
		t.Fatalf("session should exist")
	}
	if info.TurnCount != 3 {
		t.Errorf("turn count = %d, want 3", info.TurnCount)
	}
	if len(info.AgentsUsed) != 2 || info.AgentsUsed[0] != "Math Tutor" || info.AgentsUsed[1] != "Physics Tutor" {
		t.Errorf("agents used = %v", info.AgentsUsed)
	}
	if info.DurationSeconds != 120 {
		t.Errorf("duration = %v, want 120", info.DurationSeconds)
	}
}

func TestClear(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if m.Clear(ctx, "missing") {
		t.Errorf("clearing a missing session should report false")
	}

	m.AddInteraction(ctx, "s1", "q", "a", "Math Tutor")
	if !m.Clear(ctx, "s1") {
		t.Fatalf("clearing an existing session should report true")
	}

	info := m.Info(ctx, "s1")
	if !info.Exists {
		t.Errorf("cleared session should still exist")
	}
	if info.TurnCount != 0 {
		t.Errorf("cleared session turn count = %d, want 0", info.TurnCount)
	}
}

func TestCleanupExpired(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{Expiry: time.Minute})
	ctx := context.Background()

	m.AddInteraction(ctx, "old", "q", "a", "Math Tutor")
	// Backdate the stored session past the expiry window.
	s, _ := store.Get(ctx, "old")
	s.LastActivity = time.Now().Add(-2 * time.Minute)
	_ = store.Put(ctx, s, time.Minute)
	m.AddInteraction(ctx, "fresh", "q", "a", "Math Tutor")

	if removed := m.CleanupExpired(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if info := m.Info(ctx, "fresh"); !info.Exists {
		t.Errorf("fresh session should survive cleanup")
	}
}

// failingStore errors on every call, exercising the in-memory fallback.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*Session, error) {
	return nil, errors.New("backend unreachable")
}
func (failingStore) Put(context.Context, *Session, time.Duration) error {
	return errors.New("backend unreachable")
}
func (failingStore) Delete(context.Context, string) error {
	return errors.New("backend unreachable")
}

func TestBackendErrorsFallBackToMemory(t *testing.T) {
	m := NewManager(failingStore{}, Options{})
	ctx := context.Background()

	m.AddInteraction(ctx, "s1", "q", "a", "Math Tutor")

	got := m.GetContext(ctx, "s1")
	if got != "User: q\nAI: a\n" {
		t.Errorf("context after fallback = %q", got)
	}
	if info := m.Info(ctx, "s1"); !info.Exists {
		t.Errorf("session should be readable from the fallback store")
	}
}
