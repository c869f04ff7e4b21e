// Package tutor exposes the single entry point the boundary layer calls:
// it threads session context into the coordinator and records each turn
// back into the session store.
package tutor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/agent"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/session"
)

// ErrEmptyQuery rejects blank input before any model call.
var ErrEmptyQuery = errors.New("query must not be empty")

// Response is what the boundary layer returns per request.
type Response struct {
	Content         string         `json:"content"`
	Confidence      float64        `json:"confidence"`
	AgentUsed       string         `json:"agent_used"`
	Sources         []string       `json:"sources"`
	SessionID       string         `json:"session_id,omitempty"`
	ExecutionTimeMs float64        `json:"execution_time_ms"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Service composes the coordinator with session memory.
type Service struct {
	coordinator *agent.Coordinator
	sessions    *session.Manager
	log         *slog.Logger
}

func NewService(coordinator *agent.Coordinator, sessions *session.Manager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{coordinator: coordinator, sessions: sessions, log: log}
}

// Process answers one student query. Prior session turns are injected as
// context, and the completed turn is recorded back before returning.
func (s *Service) Process(ctx context.Context, text, contextText, userID, sessionID string) (Response, error) {
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyQuery
	}

	merged := contextText
	if prior := s.sessions.GetContext(ctx, sessionID); prior != "" {
		if merged != "" {
			merged = prior + "\n" + merged
		} else {
			merged = prior
		}
	}

	result := s.coordinator.Handle(ctx, agent.Query{
		Text:      text,
		Context:   merged,
		UserID:    userID,
		SessionID: sessionID,
	})

	agentUsed := s.coordinator.Name()
	if name, ok := result.Metadata["agent"].(string); ok && name != "" {
		agentUsed = name
	}

	if sessionID != "" {
		s.sessions.AddInteraction(ctx, sessionID, text, result.Content, agentUsed)
	}

	return Response{
		Content:         result.Content,
		Confidence:      result.Confidence,
		AgentUsed:       agentUsed,
		Sources:         result.Sources,
		SessionID:       sessionID,
		ExecutionTimeMs: float64(result.ExecutionTime.Microseconds()) / 1000.0,
		Metadata:        result.Metadata,
	}, nil
}

// GetHandler resolves a handler by key, with "coordinator" mapping to the
// coordinator itself.
func (s *Service) GetHandler(key string) (agent.Handler, bool) {
	if key == "coordinator" {
		return s.coordinator, true
	}
	return s.coordinator.Registry().Get(key)
}

// ListHandlers describes the coordinator and every specialist.
func (s *Service) ListHandlers() []agent.Capability {
	caps := []agent.Capability{{
		Key:         "coordinator",
		Name:        s.coordinator.Name(),
		Description: s.coordinator.Description(),
		Tools:       []string{},
	}}
	return append(caps, s.coordinator.Registry().Capabilities()...)
}

// RoutingInfo dry-runs the routing decision for a query.
func (s *Service) RoutingInfo(ctx context.Context, query string) agent.RoutingInfo {
	return s.coordinator.GetRoutingInfo(ctx, query)
}

func (s *Service) SessionInfo(ctx context.Context, id string) session.Info {
	return s.sessions.Info(ctx, id)
}

func (s *Service) ClearSession(ctx context.Context, id string) bool {
	return s.sessions.Clear(ctx, id)
}
