package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"medrag/model"
	"medrag/types"
)

const systemPrompt = `You are a clinical QA assistant.
You must answer using ONLY the provided context.

If the answer is not explicitly supported by the context, say: "I don't know based on the provided documents."
You must include citations in the format [source_id], where source_id matches the chunk_id shown in the context.
Do not cite anything you did not use.
`

const userPromptFormat = `Question:
%s

Context (each chunk has a chunk_id):
%s

Write a concise answer with citations.
`

// Composer builds the grounded-QA answer for a question. Two gates guard the
// answer text: the grounding check (abstain before calling the model) and the
// citation check (reject model output that cites nothing).
type Composer struct {
	llm              model.LLMClient
	maxDistance      float64
	requireCitations bool
	logger           *slog.Logger
}

func NewComposer(llm model.LLMClient, maxDistance float64, requireCitations bool) *Composer {
	return &Composer{
		llm:              llm,
		maxDistance:      maxDistance,
		requireCitations: requireCitations,
		logger:           slog.Default(),
	}
}

// Answer runs the grounding check, at most one model call, and the citation
// check. Abstention and citation rejection are designed outcomes, not errors:
// both substitute the fixed refusal answer and set a warning flag.
func (c *Composer) Answer(ctx context.Context, question string, chunks []types.RetrievedChunk, citations []string) (types.QueryResult, error) {
	grounding := Decide(chunks, c.maxDistance)

	result := types.QueryResult{
		Question:     question,
		Citations:    citations,
		Chunks:       chunks,
		WarningFlags: []string{},
		Grounding:    grounding,
	}

	if grounding.Abstained {
		result.Answer = types.RefusalAnswer
		result.WarningFlags = []string{types.FlagLowRetrievalConfidence}
		return result, nil
	}

	if c.llm == nil {
		return types.QueryResult{}, fmt.Errorf("composer not initialized: LLM client must be wired at startup")
	}

	prompt := fmt.Sprintf(userPromptFormat, question, formatContext(chunks))
	c.logger.Debug("composed prompt", "tokens", countTokens(systemPrompt+prompt))

	answer, err := c.llm.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return types.QueryResult{}, err
	}

	if c.requireCitations && !containsAny(answer, citations) {
		result.Answer = types.RefusalAnswer
		result.WarningFlags = []string{types.FlagMissingCitations}
		return result, nil
	}

	result.Answer = answer
	return result, nil
}

// formatContext renders chunks as citation-friendly records, one per chunk,
// in rank order.
func formatContext(chunks []types.RetrievedChunk) string {
	lines := make([]string, 0, len(chunks))
	for _, c := range chunks {
		lines = append(lines, fmt.Sprintf("chunk_id: %s\ntext: %s", c.ChunkID, c.Text))
	}
	return strings.Join(lines, "\n\n---\n\n")
}

func containsAny(text string, ids []string) bool {
	for _, id := range ids {
		if strings.Contains(text, id) {
			return true
		}
	}
	return false
}

func countTokens(text string) int {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}
