package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/tools"
)

// generateText runs the model and normalizes its completion to plain text.
func generateText(ctx context.Context, model models.Agent, prompt string) (string, error) {
	completion, err := model.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(fmt.Sprint(completion))
	if text == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}
	return text, nil
}

func newFlowID() string { return uuid.NewString() }

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// promptWithContext renders the student-facing part of a specialist prompt.
func promptWithContext(q Query) string {
	if q.Context != "" {
		return fmt.Sprintf("Student Question: %s\n\nContext: %s", q.Text, q.Context)
	}
	return fmt.Sprintf("Student Question: %s", q.Text)
}

// formatToolValue renders a tool result value as text suitable for a
// follow-up model prompt or a raw fallback answer.
func formatToolValue(v any) string {
	switch val := v.(type) {
	case tools.Formula:
		var b strings.Builder
		fmt.Fprintf(&b, "formula: %s\n", val.Formula)
		fmt.Fprintf(&b, "description: %s\n", val.Description)
		names := make([]string, 0, len(val.Variables))
		for name := range val.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "%s: %s\n", name, val.Variables[name])
		}
		return strings.TrimSpace(b.String())
	case tools.Disambiguation:
		var b strings.Builder
		b.WriteString("multiple matching formulas:\n")
		for _, s := range val.Suggestions {
			fmt.Fprintf(&b, "- %s: %s\n", s.Key, s.Description)
		}
		return strings.TrimSpace(b.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// explainToolResult asks the model to wrap a deterministic tool answer in
// an educational explanation. On failure it degrades to the raw value.
func explainToolResult(ctx context.Context, log *slog.Logger, model models.Agent, subject, query, toolName string, res tools.Result, rawFallback string) string {
	resultText := formatToolValue(res.Value)
	prompt := fmt.Sprintf(`You are a %s helping with: %q

You used the tool %q and got this result:
%s

Provide an educational response that:
1. Explains the concepts involved
2. Shows how this applies to the question
3. Includes the answer in an easy to understand way`, subject, query, toolName, resultText)

	content, err := generateText(ctx, model, prompt)
	if err != nil {
		log.Warn("explanation call failed, returning raw tool result", "tool", toolName, "error", err)
		return fmt.Sprintf("%s %s. Let me know if you need further explanation!", rawFallback, resultText)
	}
	return content
}

func successResult(name, modelName, content, flowID string, usedTools []string, started time.Time) Result {
	sources := append([]string{name, modelName}, usedTools...)
	if usedTools == nil {
		usedTools = []string{}
	}
	return Result{
		Content:    content,
		Confidence: successConfidence,
		Sources:    sources,
		Metadata: map[string]any{
			"agent":            name,
			"flow_id":          flowID,
			"tools_used":       usedTools,
			"tool_calls_count": len(usedTools),
		},
		ExecutionTime: time.Since(started),
	}
}

func failureResult(name, subject, flowID string, err error, started time.Time) Result {
	return Result{
		Content:    fmt.Sprintf("I encountered an error while trying to help with your %s question: %v. Please try rephrasing.", subject, err),
		Confidence: failureConfidence,
		Metadata: map[string]any{
			"error":   err.Error(),
			"agent":   name,
			"flow_id": flowID,
		},
		ExecutionTime: time.Since(started),
	}
}
