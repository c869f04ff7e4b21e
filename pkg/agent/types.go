// Package agent implements the tutoring handlers: the math, physics, and
// biology specialists, the registry that holds them, and the coordinator
// that routes student queries between them.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
)

// Query is one student request. Immutable once created.
type Query struct {
	Text      string
	Context   string
	UserID    string
	SessionID string
}

// Result is the outcome of one handler invocation. Constructed once,
// never mutated.
type Result struct {
	Content       string
	Confidence    float64
	Sources       []string
	Metadata      map[string]any
	ExecutionTime time.Duration
}

// Handler produces an educational response for one subject domain,
// possibly with the help of deterministic tools. Handlers are constructed
// once at startup and are stateless across calls.
type Handler interface {
	Name() string
	Description() string

	// EstimateConfidence scores how well this handler fits the query
	// text, in [0, 1]. Pure function over lower-cased text.
	EstimateConfidence(text string) float64

	// Handle answers the query. Every failure path still returns a
	// well-formed Result; Handle never panics and never returns an error.
	Handle(ctx context.Context, q Query) Result

	// Tools lists the names of the deterministic tools this handler owns.
	Tools() []string
}

// Config carries the shared collaborators a handler needs.
type Config struct {
	Model models.Agent
	// ModelName labels the provider in result sources, e.g. "Gemini 2.0 Flash".
	ModelName string
	Logger    *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.ModelName == "" {
		c.ModelName = "LLM"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Confidence constants shared by the specialist scoring heuristics,
// named here so the tuning can be revisited without touching control
// flow.
const (
	successConfidence = 0.85
	failureConfidence = 0.1
	directConfidence  = 0.7

	baseConfidence    = 0.2
	domainKeywordCap  = 0.8
	domainBoost       = 0.3
	specificTermBoost = 0.2

	mathKeywordWeight = 0.3
	mathPatternWeight = 0.7
	actionVerbBoost   = 0.3
)
