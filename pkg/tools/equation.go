package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const zeroEpsilon = 1e-10

// InfiniteSolutions is the sentinel value returned when every x satisfies
// the equation (both sides reduce to the same line).
const InfiniteSolutions = "infinite_solutions"

// EquationSolver solves linear equations in a single variable x, such as
// "x + 5 = 10" or "2x - 3 = 7".
type EquationSolver struct{}

func NewEquationSolver() *EquationSolver { return &EquationSolver{} }

func (s *EquationSolver) Name() string { return "equation_solver" }

func (s *EquationSolver) Description() string {
	return "Solve simple algebraic equations like 'x + 5 = 10' or '2x - 3 = 7'"
}

func (s *EquationSolver) Spec() Spec {
	return Spec{
		Name:        s.Name(),
		Description: s.Description(),
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"equation": map[string]any{
					"type":        "string",
					"description": "Algebraic equation to solve (e.g., '2x + 3 = 7' or 'x - 5 = 10')",
				},
			},
			"required": []any{"equation"},
		},
	}
}

func (s *EquationSolver) Invoke(args map[string]any) (Result, error) {
	equation, ok := stringArg(args, "equation")
	if !ok {
		return Result{}, fmt.Errorf("%w: missing 'equation' argument", ErrParse)
	}

	equation = strings.ReplaceAll(strings.TrimSpace(equation), " ", "")
	left, right, found := strings.Cut(equation, "=")
	if !found {
		return Result{}, fmt.Errorf("%w: equation must contain an equals sign", ErrParse)
	}
	if strings.Contains(right, "=") {
		return Result{}, fmt.Errorf("%w: equation must contain exactly one equals sign", ErrParse)
	}

	leftCoeff, leftConst, err := parseLinearSide(left)
	if err != nil {
		return Result{}, err
	}
	rightCoeff, rightConst, err := parseLinearSide(right)
	if err != nil {
		return Result{}, err
	}

	// Rearrange to a*x = b.
	a := leftCoeff - rightCoeff
	b := rightConst - leftConst

	meta := map[string]any{"equation": equation, "variable": "x"}

	if math.Abs(a) < zeroEpsilon {
		if math.Abs(b) < zeroEpsilon {
			return Result{Value: InfiniteSolutions, Metadata: meta}, nil
		}
		return Result{}, fmt.Errorf("%w: %s", ErrNoSolution, equation)
	}

	x := math.Round(b/a*1e6) / 1e6
	return Result{Value: x, Metadata: meta}, nil
}

// parseLinearSide reduces one side of the equation, a sum of terms of the
// form c, c*x, cx, x, or -x, to its (coefficient, constant) pair.
func parseLinearSide(expr string) (coeff, constant float64, err error) {
	if expr == "" {
		return 0, 0, fmt.Errorf("%w: empty expression side", ErrParse)
	}

	expr = strings.ReplaceAll(expr, "-", "+-")
	for _, term := range strings.Split(expr, "+") {
		if term == "" {
			continue
		}
		if n := strings.Count(term, "x"); n > 1 {
			return 0, 0, fmt.Errorf("%w: term %q has more than one variable", ErrParse, term)
		} else if n == 1 {
			c := strings.TrimSuffix(strings.ReplaceAll(term, "*", ""), "x")
			switch c {
			case "":
				coeff++
			case "-":
				coeff--
			default:
				f, perr := strconv.ParseFloat(c, 64)
				if perr != nil {
					return 0, 0, fmt.Errorf("%w: bad coefficient in term %q", ErrParse, term)
				}
				coeff += f
			}
			continue
		}
		f, perr := strconv.ParseFloat(term, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("%w: bad constant term %q", ErrParse, term)
		}
		constant += f
	}
	return coeff, constant, nil
}
