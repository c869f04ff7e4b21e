package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

type OpenAILLM struct {
	Client       *openai.Client
	Model        string
	PromptPrefix string
}

func NewOpenAILLM(model string, promptPrefix string) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	client := openai.NewClient(apiKey)
	return &OpenAILLM{Client: client, Model: model, PromptPrefix: promptPrefix}
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (any, error) {
	fullPrompt := prompt
	if o.PromptPrefix != "" {
		fullPrompt = o.PromptPrefix + "\n" + prompt
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fullPrompt,
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILLM) GenerateFunctionCall(ctx context.Context, prompt string, fns []FunctionDeclaration) (FunctionCall, error) {
	tools := make([]openai.Tool, 0, len(fns))
	for _, fn := range fns {
		props := make(map[string]any, len(fn.Properties))
		for name, desc := range fn.Properties {
			props[name] = map[string]any{"type": "string", "description": desc}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": props,
					"required":   fn.Required,
				},
			},
		})
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Tools: tools,
	})
	if err != nil {
		return FunctionCall{}, err
	}
	if len(resp.Choices) == 0 {
		return FunctionCall{}, errors.New("no response from OpenAI")
	}

	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return FunctionCall{}, ErrNoFunctionCall
	}

	args := map[string]any{}
	if raw := calls[0].Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return FunctionCall{}, fmt.Errorf("openai tool arguments: %w", err)
		}
	}
	return FunctionCall{Name: calls[0].Function.Name, Args: args}, nil
}

var (
	_ Agent          = (*OpenAILLM)(nil)
	_ FunctionCaller = (*OpenAILLM)(nil)
)
