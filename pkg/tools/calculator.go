package tools

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// calcEnv is the only namespace calculator expressions can touch. No I/O,
// no attribute access, no arbitrary identifiers.
var calcEnv = map[string]any{
	"pi": math.Pi,
	"e":  math.E,

	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sqrt":  math.Sqrt,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"exp":   math.Exp,
	"pow":   math.Pow,
	"abs":   math.Abs,
	"round": math.Round,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

// Calculator evaluates arithmetic expressions against a restricted numeric
// namespace.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

func (c *Calculator) Name() string { return "calculator" }

func (c *Calculator) Description() string {
	return "Perform basic mathematical calculations including arithmetic, trigonometry, and logarithms"
}

func (c *Calculator) Spec() Spec {
	return Spec{
		Name:        c.Name(),
		Description: c.Description(),
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "Mathematical expression to evaluate (e.g., '2 + 3 * sin(pi/4)')",
				},
			},
			"required": []any{"expression"},
		},
	}
}

func (c *Calculator) Invoke(args map[string]any) (Result, error) {
	expression, ok := stringArg(args, "expression")
	if !ok {
		return Result{}, fmt.Errorf("%w: missing 'expression' argument", ErrParse)
	}

	prepared := prepareExpression(expression)

	program, err := expr.Compile(prepared, expr.Env(calcEnv))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	value, err := expr.Run(program, calcEnv)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	if f, isFloat := value.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return Result{}, fmt.Errorf("%w: result is not a finite number", ErrEvaluation)
	}

	return Result{Value: value, Metadata: map[string]any{"expression": prepared}}, nil
}

// prepareExpression rewrites common blackboard notation into the evaluator's
// syntax.
func prepareExpression(s string) string {
	replacer := strings.NewReplacer(
		"^", "**",
		"ln(", "log(",
		"√(", "sqrt(",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
