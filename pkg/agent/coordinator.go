package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
)

// Coordinator is the top-level handler. It asks the model to pick a
// specialist via a structured function call, falls back to keyword
// heuristics when that is not possible, and answers general queries
// itself. It implements Handler so it composes uniformly with the
// specialists.
type Coordinator struct {
	model     models.Agent
	modelName string
	log       *slog.Logger
	registry  *Registry
}

func NewCoordinator(cfg Config, registry *Registry) *Coordinator {
	cfg = cfg.withDefaults()
	return &Coordinator{
		model:     cfg.Model,
		modelName: cfg.ModelName,
		log:       cfg.Logger,
		registry:  registry,
	}
}

func (c *Coordinator) Name() string { return "AI Tutor Coordinator" }

func (c *Coordinator) Description() string {
	return "I am your intelligent AI tutor coordinator. I analyze your questions and dynamically route them to the most appropriate specialist tutor or handle them myself."
}

// EstimateConfidence is fixed high: the coordinator can always route or
// answer directly.
func (c *Coordinator) EstimateConfidence(string) float64 { return 0.95 }

func (c *Coordinator) Tools() []string { return nil }

// Registry exposes the specialist registry for introspection endpoints.
func (c *Coordinator) Registry() *Registry { return c.registry }

func (c *Coordinator) Handle(ctx context.Context, q Query) Result {
	started := time.Now()
	flowID := newFlowID()
	log := c.log.With("agent", c.Name(), "flow_id", flowID)

	decision := c.route(ctx, q)
	log.Info("routing decision",
		"query", q.Text,
		"action", decision.Action,
		"target", decision.HandlerName,
		"reasoning", decision.Reasoning)

	if decision.Action == ActionDelegate {
		handler, ok := c.registry.Get(decision.HandlerKey)
		if !ok {
			log.Error("specialist not found", "key", decision.HandlerKey)
			return Result{
				Content:    fmt.Sprintf("Sorry, I couldn't find the right specialist (%s) for your query.", decision.HandlerKey),
				Confidence: failureConfidence,
				Metadata: map[string]any{
					"error":   fmt.Sprintf("handler %q not found", decision.HandlerKey),
					"agent":   c.Name(),
					"flow_id": flowID,
				},
				ExecutionTime: time.Since(started),
			}
		}
		log.Info("delegating", "to", handler.Name())
		// Specialist results are returned unmodified; the coordinator
		// does not re-wrap or re-score them.
		return handler.Handle(ctx, q)
	}

	return c.answerDirectly(ctx, q, decision.Reasoning, flowID, started)
}

// route picks delegate-vs-direct for one query. Every failure degrades to
// the keyword fallback; route never returns an error.
func (c *Coordinator) route(ctx context.Context, q Query) RoutingDecision {
	lower := strings.ToLower(q.Text)

	caller, ok := c.model.(models.FunctionCaller)
	if !ok {
		return keywordRoute(lower, "provider without function calling")
	}

	call, err := caller.GenerateFunctionCall(ctx, routingPrompt(q), routingDeclarations())
	switch {
	case errors.Is(err, models.ErrNoFunctionCall):
		return RoutingDecision{
			Action:    ActionDirect,
			Reasoning: "No clear specialization identified via function call.",
		}
	case err != nil:
		c.log.Warn("routing call failed, using keyword fallback", "error", err)
		return keywordRoute(lower, fmt.Sprintf("error: %v", err))
	default:
		return decisionFromCall(call)
	}
}

// RoutingInfo is a dry-run of the routing decision, for debugging.
type RoutingInfo struct {
	Query         string          `json:"query"`
	Decision      RoutingDecision `json:"routing_decision"`
	WouldDelegate bool            `json:"would_delegate"`
	TargetKey     string          `json:"target_agent,omitempty"`
}

func (c *Coordinator) GetRoutingInfo(ctx context.Context, query string) RoutingInfo {
	decision := c.route(ctx, Query{Text: query})
	return RoutingInfo{
		Query:         query,
		Decision:      decision,
		WouldDelegate: decision.Action == ActionDelegate,
		TargetKey:     decision.HandlerKey,
	}
}

func (c *Coordinator) answerDirectly(ctx context.Context, q Query, reasoning, flowID string, started time.Time) Result {
	contextText := q.Context
	if contextText == "" {
		contextText = "None provided"
	}

	specialists := make([]string, 0, len(c.registry.order))
	for _, cap := range c.registry.Capabilities() {
		specialists = append(specialists, cap.Name)
	}

	prompt := fmt.Sprintf(`You are an AI Tutor Coordinator.
Student Question: %s
Context: %s
Routing Decision: You've decided to handle this query directly. Reasoning: %s
Available Specialists (for future reference by the user, not for you to use now): %s.

Provide a comprehensive, educational response directly to the student.`,
		q.Text, contextText, reasoning, strings.Join(specialists, ", "))

	content, err := generateText(ctx, c.model, prompt)
	if err != nil {
		c.log.Error("direct answer failed", "flow_id", flowID, "error", err)
		content = fmt.Sprintf("I'd be happy to help with your question: %s. However, I encountered a technical issue while preparing your answer. Could you please rephrase your question?", q.Text)
	}

	return Result{
		Content:    content,
		Confidence: directConfidence,
		Sources:    []string{c.Name(), c.modelName},
		Metadata: map[string]any{
			"agent":             c.Name(),
			"flow_id":           flowID,
			"mode":              "general_tutor",
			"routing_reasoning": reasoning,
		},
		ExecutionTime: time.Since(started),
	}
}

var _ Handler = (*Coordinator)(nil)
