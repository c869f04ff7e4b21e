// Package tools provides the deterministic solvers that specialist tutors
// can invoke: a linear equation solver, a formula lookup table, and a
// sandboxed calculator. Tools are stateless and safe for concurrent use.
package tools

import "errors"

// Spec describes how a tool is presented to the model for function calling.
type Spec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Result is the successful output of a tool invocation.
type Result struct {
	Value    any
	Metadata map[string]any
}

// Tool is a deterministic, side-effect-free solver.
type Tool interface {
	Name() string
	Description() string
	Spec() Spec
	Invoke(args map[string]any) (Result, error)
}

// Failure kinds. Tool errors wrap exactly one of these so callers can
// branch with errors.Is.
var (
	ErrParse      = errors.New("malformed tool input")
	ErrNoSolution = errors.New("equation has no solution")
	ErrNotFound   = errors.New("no matching formula")
	ErrEvaluation = errors.New("expression evaluation failed")
)

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
