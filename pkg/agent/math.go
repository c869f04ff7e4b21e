package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/tools"
)

var mathKeywords = []string{
	"math", "algebra", "calculus", "geometry", "statistics", "probability",
	"equation", "solve", "factor", "simplify", "compute", "calculate",
	"derivative", "integral", "function", "polynomial", "expression",
	"quadratic", "linear", "logarithm", "exponential", "trigonometry",
	"matrix", "vector", "variable", "coefficient", "inequality",
	"sequence", "series", "sum", "arithmetic", "geometric",
	"mean", "median", "mode", "variance", "theorem", "proof",
	"fraction", "decimal", "percentage", "prime",
}

var mathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*[\+\-\*\/\^]\s*\d+`),
	regexp.MustCompile(`[xy]\s*[\+\-\*\/]\s*\d+`),
	regexp.MustCompile(`=`),
	regexp.MustCompile(`[xy]\^?\d*`),
	regexp.MustCompile(`sin|cos|tan|log|ln|sqrt`),
	regexp.MustCompile(`∫|∑|∆|π|θ|α|β|γ`),
}

var mathActionVerbs = []string{"solve", "calculate", "compute", "equation", "formula"}

const mathInstruction = `You are a Math Tutor agent. Help students understand mathematical concepts and solve problems.

STRICTLY Use available tools when appropriate:
- equation_solver: Solve algebraic equations
- formula_lookup: Find mathematical formulas
- calculator: Evaluate arithmetic expressions

Provide clear explanations with step-by-step solutions.`

// MathHandler tutors algebra, geometry, calculus, and arithmetic. It owns
// the equation solver, the formula table, and the calculator.
type MathHandler struct {
	model     models.Agent
	modelName string
	log       *slog.Logger

	solver   *tools.EquationSolver
	formulas *tools.FormulaLookup
	calc     *tools.Calculator
}

func NewMathHandler(cfg Config) *MathHandler {
	cfg = cfg.withDefaults()
	return &MathHandler{
		model:     cfg.Model,
		modelName: cfg.ModelName,
		log:       cfg.Logger,
		solver:    tools.NewEquationSolver(),
		formulas:  tools.NewFormulaLookup(),
		calc:      tools.NewCalculator(),
	}
}

func (h *MathHandler) Name() string { return "Math Tutor" }

func (h *MathHandler) Description() string {
	return "Math tutor with expertise in algebra, calculus, statistics, and geometry"
}

func (h *MathHandler) Tools() []string {
	return []string{h.solver.Name(), h.formulas.Name(), h.calc.Name()}
}

// EstimateConfidence combines weighted keyword hits with regex pattern
// hits, normalized against the maximum possible score, plus a flat boost
// when an action verb appears.
func (h *MathHandler) EstimateConfidence(text string) float64 {
	lower := strings.ToLower(text)

	keywordScore := 0
	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			keywordScore++
		}
	}
	patternScore := 0
	for _, p := range mathPatterns {
		if p.MatchString(lower) {
			patternScore++
		}
	}

	total := float64(keywordScore)*mathKeywordWeight + float64(patternScore)*mathPatternWeight
	maxPossible := float64(len(mathKeywords))*mathKeywordWeight + float64(len(mathPatterns))*mathPatternWeight
	confidence := min(total/maxPossible, 1.0)

	if containsAny(lower, mathActionVerbs...) {
		confidence = min(confidence+actionVerbBoost, 1.0)
	}
	return confidence
}

func (h *MathHandler) Handle(ctx context.Context, q Query) Result {
	started := time.Now()
	flowID := newFlowID()
	log := h.log.With("agent", h.Name(), "flow_id", flowID)
	log.Info("processing query", "query", q.Text)

	lower := strings.ToLower(q.Text)

	var (
		toolName string
		toolRes  tools.Result
		toolErr  error
		invoked  bool
	)
	switch {
	case containsAny(lower, "solve", "equation", "find x", "find the value"):
		toolName = h.solver.Name()
		toolRes, toolErr = h.solver.Invoke(map[string]any{"equation": extractEquation(q.Text)})
		invoked = true
	case strings.Contains(lower, "formula"):
		toolName = h.formulas.Name()
		toolRes, toolErr = h.formulas.Invoke(map[string]any{"query": mathFormulaAlias(lower)})
		invoked = true
	case containsAny(lower, "calculate", "compute"):
		if expression, ok := extractExpression(q.Text); ok {
			toolName = h.calc.Name()
			toolRes, toolErr = h.calc.Invoke(map[string]any{"expression": expression})
			invoked = true
		}
	}

	if invoked && toolErr == nil {
		log.Info("tool call succeeded", "tool", toolName, "result", fmt.Sprint(toolRes.Value))
		content := explainToolResult(ctx, log, h.model, h.Name(), q.Text, toolName, toolRes,
			"I found this solution for your math question:")
		return successResult(h.Name(), h.modelName, content, flowID, []string{toolName}, started)
	}
	if toolErr != nil {
		log.Warn("tool call failed, answering with the model", "tool", toolName, "error", toolErr)
	}

	prompt := h.systemPrompt() + "\n\n" + promptWithContext(q)
	content, err := generateText(ctx, h.model, prompt)
	if err != nil {
		log.Error("model call failed", "error", err)
		return failureResult(h.Name(), "math", flowID, err, started)
	}
	return successResult(h.Name(), h.modelName, content, flowID, nil, started)
}

func (h *MathHandler) systemPrompt() string {
	return fmt.Sprintf(`You are %s.

%s

%s

Remember to:
- Provide clear, educational explanations
- Show your reasoning step by step
- Always aim to help the student understand concepts, not just provide answers`,
		h.Name(), mathInstruction, h.Description())
}

// mathFormulaAlias narrows a free-form question to a formula table key
// when the phrasing makes the target obvious.
func mathFormulaAlias(lower string) string {
	switch {
	case strings.Contains(lower, "quadratic"):
		return "quadratic_formula"
	case strings.Contains(lower, "pythagorean"):
		return "pythagorean_theorem"
	case strings.Contains(lower, "area") && strings.Contains(lower, "circle"):
		return "area_circle"
	case strings.Contains(lower, "area") && strings.Contains(lower, "triangle"):
		return "area_triangle"
	default:
		return lower
	}
}

var equationPattern = regexp.MustCompile(`[0-9x.+\-*/\s]+=[0-9x.+\-*/\s]+`)

// extractEquation pulls the equation span out of a full question, so that
// "Solve 2x + 5 = 15 for x" hands "2x + 5 = 15" to the solver. Without a
// recognizable span the raw text is returned and the solver reports a
// parse error, which sends the query down the plain model path.
func extractEquation(text string) string {
	if m := equationPattern.FindString(strings.ToLower(text)); m != "" {
		return strings.TrimSpace(m)
	}
	return text
}

// extractExpression takes the text following a "calculate"/"compute"
// trigger word as the candidate expression.
func extractExpression(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, verb := range []string{"calculate", "compute"} {
		idx := strings.Index(lower, verb)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(text[idx+len(verb):])
		rest = strings.TrimSuffix(rest, "?")
		rest = strings.TrimSuffix(rest, ".")
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

var _ Handler = (*MathHandler)(nil)
