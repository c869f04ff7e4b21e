package tools

import (
	"errors"
	"math"
	"testing"
)

func solve(t *testing.T, equation string) (Result, error) {
	t.Helper()
	return NewEquationSolver().Invoke(map[string]any{"equation": equation})
}

func TestEquationSolverSimple(t *testing.T) {
	cases := []struct {
		equation string
		want     float64
	}{
		{"x + 5 = 10", 5},
		{"2x + 5 = 15", 5},
		{"2x - 3 = 7", 5},
		{"3x = 12", 4},
		{"-x = 4", -4},
		{"2*x + 1 = 0", -0.5},
		{"x = 7", 7},
		{"5 = x + 2", 3},
	}

	for _, tc := range cases {
		res, err := solve(t, tc.equation)
		if err != nil {
			t.Fatalf("solve(%q) returned error: %v", tc.equation, err)
		}
		got, ok := res.Value.(float64)
		if !ok {
			t.Fatalf("solve(%q) = %v, want float64", tc.equation, res.Value)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("solve(%q) = %v, want %v", tc.equation, got, tc.want)
		}
	}
}

// ax + b = cx + d with a != c must yield (d-b)/(a-c).
func TestEquationSolverGeneralLinear(t *testing.T) {
	res, err := solve(t, "3x + 2 = x + 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Value.(float64); math.Abs(got-4) > 1e-6 {
		t.Errorf("got %v, want 4", got)
	}
}

func TestEquationSolverInfiniteSolutions(t *testing.T) {
	res, err := solve(t, "2x + 3 = 2x + 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != InfiniteSolutions {
		t.Errorf("got %v, want %q sentinel", res.Value, InfiniteSolutions)
	}
}

func TestEquationSolverNoSolution(t *testing.T) {
	_, err := solve(t, "2x + 3 = 2x + 5")
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("got %v, want ErrNoSolution", err)
	}
}

func TestEquationSolverParseErrors(t *testing.T) {
	for _, equation := range []string{
		"2x + 3",        // no equals sign
		"x + y = 4",     // second variable
		"2q + 1 = 5",    // unknown symbol
		"x = 1 = 2",     // two equals signs
		"2..5x + 1 = 3", // malformed literal
		"= 5",           // empty left side
	} {
		_, err := solve(t, equation)
		if !errors.Is(err, ErrParse) {
			t.Errorf("solve(%q) = %v, want ErrParse", equation, err)
		}
	}
}

func TestEquationSolverMissingArgument(t *testing.T) {
	_, err := NewEquationSolver().Invoke(map[string]any{})
	if !errors.Is(err, ErrParse) {
		t.Errorf("got %v, want ErrParse", err)
	}
}
