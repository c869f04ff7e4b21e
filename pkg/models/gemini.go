package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ---------------------------- Google Gemini ----------------------------------

type GeminiLLM struct {
	Client       *genai.Client
	Model        string
	PromptPrefix string
}

func NewGeminiLLM(ctx context.Context, model, promptPrefix string) (*GeminiLLM, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: model, PromptPrefix: promptPrefix}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (any, error) {
	model := g.Client.GenerativeModel(g.Model)

	fullPrompt := prompt
	if prefix := strings.TrimSpace(g.PromptPrefix); prefix != "" {
		fullPrompt = fmt.Sprintf("%s %s", prefix, prompt)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: empty response")
	}

	return resp.Candidates[0].Content.Parts[0], nil
}

// GenerateFunctionCall offers the declared functions to the model and
// returns the single call it selects, or ErrNoFunctionCall when it answers
// in free text instead.
func (g *GeminiLLM) GenerateFunctionCall(ctx context.Context, prompt string, fns []FunctionDeclaration) (FunctionCall, error) {
	model := g.Client.GenerativeModel(g.Model)

	decls := make([]*genai.FunctionDeclaration, 0, len(fns))
	for _, fn := range fns {
		props := make(map[string]*genai.Schema, len(fn.Properties))
		for name, desc := range fn.Properties {
			props[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        fn.Name,
			Description: fn.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   fn.Required,
			},
		})
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return FunctionCall{}, fmt.Errorf("gemini generate: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				return FunctionCall{Name: fc.Name, Args: fc.Args}, nil
			}
		}
	}
	return FunctionCall{}, ErrNoFunctionCall
}

var (
	_ Agent          = (*GeminiLLM)(nil)
	_ FunctionCaller = (*GeminiLLM)(nil)
)
