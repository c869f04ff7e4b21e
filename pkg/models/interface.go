// Package models wraps the hosted language-model providers behind a small
// text-in/text-out interface, plus an optional structured function-calling
// extension used for routing decisions.
package models

import (
	"context"
	"errors"
)

// Agent generates a completion for a prompt.
type Agent interface {
	Generate(context.Context, string) (any, error)
}

// FunctionDeclaration describes one callable action offered to the model.
// All parameters are strings; the router and the tools need nothing richer.
type FunctionDeclaration struct {
	Name        string
	Description string
	Properties  map[string]string // parameter name -> description
	Required    []string
}

// FunctionCall is the single structured action a model selected.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// ErrNoFunctionCall reports that the model answered without selecting any
// of the offered functions. Distinct from a transport error: the call
// succeeded but produced free text.
var ErrNoFunctionCall = errors.New("model made no function call")

// FunctionCaller is implemented by providers that support structured
// function calling. Providers without it (e.g. Ollama) only implement
// Agent, and callers fall back to their own heuristics.
type FunctionCaller interface {
	GenerateFunctionCall(ctx context.Context, prompt string, fns []FunctionDeclaration) (FunctionCall, error)
}
