package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/tools"
)

var physicsKeywords = []string{
	"physics", "force", "energy", "motion", "velocity", "acceleration", "momentum",
	"electric", "magnetic", "current", "voltage", "resistance", "circuit",
	"thermodynamics", "temperature", "heat", "entropy", "pressure", "volume",
	"gravity", "mass", "weight", "friction", "kinetic", "potential",
	"wave", "optics", "lens", "mirror", "refraction", "reflection",
	"quantum", "atom", "relativity", "oscillation",
}

var physicsFormulaTerms = []string{"formula", "equation", "calculate"}

const physicsInstruction = `You are a Physics Tutor agent. Help students understand physics concepts and solve problems.

Use available tools when appropriate:
- formula_lookup: Find physics formulas and equations

Provide clear explanations with step-by-step solutions.`

// PhysicsHandler tutors mechanics, electricity, thermodynamics, and other
// physics topics. It owns the formula lookup table.
type PhysicsHandler struct {
	model     models.Agent
	modelName string
	log       *slog.Logger

	formulas *tools.FormulaLookup
}

func NewPhysicsHandler(cfg Config) *PhysicsHandler {
	cfg = cfg.withDefaults()
	return &PhysicsHandler{
		model:     cfg.Model,
		modelName: cfg.ModelName,
		log:       cfg.Logger,
		formulas:  tools.NewFormulaLookup(),
	}
}

func (h *PhysicsHandler) Name() string { return "Physics Tutor" }

func (h *PhysicsHandler) Description() string {
	return "Physics tutor with expertise in mechanics, electromagnetism, thermodynamics, and modern physics"
}

func (h *PhysicsHandler) Tools() []string { return []string{h.formulas.Name()} }

// EstimateConfidence uses the two-tier score: a base, a boost on any
// domain keyword, and a further boost for formula-related phrasing.
func (h *PhysicsHandler) EstimateConfidence(text string) float64 {
	lower := strings.ToLower(text)

	confidence := baseConfidence
	if containsAny(lower, physicsKeywords...) {
		confidence = min(confidence+domainBoost, domainKeywordCap)
	}
	if containsAny(lower, physicsFormulaTerms...) {
		confidence = min(confidence+specificTermBoost, 1.0)
	}
	return confidence
}

func (h *PhysicsHandler) Handle(ctx context.Context, q Query) Result {
	started := time.Now()
	flowID := newFlowID()
	log := h.log.With("agent", h.Name(), "flow_id", flowID)
	log.Info("processing query", "query", q.Text)

	lower := strings.ToLower(q.Text)

	if containsAny(lower, "formula", "equation", "law of") {
		toolName := h.formulas.Name()
		toolRes, toolErr := h.formulas.Invoke(map[string]any{"query": physicsFormulaAlias(lower)})
		if toolErr == nil {
			log.Info("tool call succeeded", "tool", toolName, "result", fmt.Sprint(toolRes.Value))
			content := explainToolResult(ctx, log, h.model, h.Name(), q.Text, toolName, toolRes,
				"I found this formula for your physics question:")
			return successResult(h.Name(), h.modelName, content, flowID, []string{toolName}, started)
		}
		log.Warn("tool call failed, answering with the model", "tool", toolName, "error", toolErr)
	}

	prompt := h.systemPrompt() + "\n\n" + promptWithContext(q)
	content, err := generateText(ctx, h.model, prompt)
	if err != nil {
		log.Error("model call failed", "error", err)
		return failureResult(h.Name(), "physics", flowID, err, started)
	}
	return successResult(h.Name(), h.modelName, content, flowID, nil, started)
}

func (h *PhysicsHandler) systemPrompt() string {
	return fmt.Sprintf(`You are %s.

%s

%s

Remember to:
- Use tools IMMEDIATELY when the query requires them
- Provide clear, educational explanations AFTER using tools
- Show your reasoning step by step with proper physics principles
- Always use correct units and verify physical reasonableness
- Always aim to help the student understand concepts, not just provide answers`,
		h.Name(), physicsInstruction, h.Description())
}

func physicsFormulaAlias(lower string) string {
	switch {
	case strings.Contains(lower, "kinetic energy"):
		return "kinetic_energy"
	case strings.Contains(lower, "potential energy"):
		return "potential_energy"
	case strings.Contains(lower, "force") && (strings.Contains(lower, "newton") || strings.Contains(lower, "second law")):
		return "force"
	case strings.Contains(lower, "ohm") || strings.Contains(lower, "voltage"):
		return "ohms_law"
	default:
		return lower
	}
}

var _ Handler = (*PhysicsHandler)(nil)
