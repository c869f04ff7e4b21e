package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
)

var biologyKeywords = []string{
	"biology", "cell", "dna", "rna", "protein", "gene", "chromosome", "mitosis", "meiosis",
	"ecology", "ecosystem", "species", "evolution", "natural selection", "adaptation",
	"organism", "bacteria", "virus", "enzyme", "photosynthesis", "respiration",
	"anatomy", "physiology", "organ", "tissue", "blood", "heart", "brain", "nervous system",
	"digestion", "metabolism", "homeostasis", "hormone", "receptor", "immune",
	"plant", "animal", "fungi", "taxonomy", "biodiversity", "genetics",
}

var biologySpecificTerms = []string{"cell", "dna", "gene", "protein", "enzyme"}

const biologyInstruction = `You are a Biology Tutor agent. Help students understand biological concepts and processes.

Provide clear explanations with relevant examples and analogies.
Focus on accuracy and educational value in your responses.`

// BiologyHandler tutors cellular biology, genetics, ecology, and
// physiology. It has no deterministic tools.
type BiologyHandler struct {
	model     models.Agent
	modelName string
	log       *slog.Logger
}

func NewBiologyHandler(cfg Config) *BiologyHandler {
	cfg = cfg.withDefaults()
	return &BiologyHandler{model: cfg.Model, modelName: cfg.ModelName, log: cfg.Logger}
}

func (h *BiologyHandler) Name() string { return "Biology Tutor" }

func (h *BiologyHandler) Description() string {
	return "Biology tutor with expertise in cellular biology, genetics, ecology, and human physiology"
}

func (h *BiologyHandler) Tools() []string { return nil }

func (h *BiologyHandler) EstimateConfidence(text string) float64 {
	lower := strings.ToLower(text)

	confidence := baseConfidence
	if containsAny(lower, biologyKeywords...) {
		confidence = min(confidence+domainBoost, domainKeywordCap)
	}
	if containsAny(lower, biologySpecificTerms...) {
		confidence = min(confidence+specificTermBoost, 1.0)
	}
	return confidence
}

func (h *BiologyHandler) Handle(ctx context.Context, q Query) Result {
	started := time.Now()
	flowID := newFlowID()
	log := h.log.With("agent", h.Name(), "flow_id", flowID)
	log.Info("processing query", "query", q.Text)

	prompt := h.systemPrompt() + "\n\n" + promptWithContext(q)
	content, err := generateText(ctx, h.model, prompt)
	if err != nil {
		log.Error("model call failed", "error", err)
		return failureResult(h.Name(), "biology", flowID, err, started)
	}
	return successResult(h.Name(), h.modelName, content, flowID, nil, started)
}

func (h *BiologyHandler) systemPrompt() string {
	return fmt.Sprintf(`%s

As a %s:
1. Provide clear explanations of biological processes
2. Use appropriate scientific terminology
3. Include relevant examples from nature
4. Make complex concepts accessible`, biologyInstruction, h.Name())
}

var _ Handler = (*BiologyHandler)(nil)
