package ai

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai/tokencount"
)

// SystemPrompt is sent as the system message by chat-style backends.
const SystemPrompt = "You are an expert interview coach. Respond only with valid JSON."

const promptExample = `{"score":7,"feedback":"Your detailed feedback here","technicalScore":7,"communicationScore":7,"idealAnswer":"The ideal answer here","strengths":["strength1","strength2"],"areasToImprove":["area1","area2"],"mistakes":["mistake1"],"lineByLineCorrection":[{"original":"problem text","corrected":"fixed text","explanation":"why"}]}`

// PromptBuilder renders the evaluation prompt and caps the answer size.
type PromptBuilder struct {
	Model          string
	MaxAnswerToken int
	Counter        *tokencount.Counter
}

// Build renders the prompt for one answer.
func (b PromptBuilder) Build(question, answer, domainName string) string {
	counter := b.Counter
	if counter == nil {
		counter = tokencount.DefaultCounter
	}
	capped, cut := counter.Truncate(answer, b.Model, b.MaxAnswerToken)
	if cut {
		slog.Debug("answer truncated for prompt",
			slog.String("model", b.Model),
			slog.Int("max_tokens", b.MaxAnswerToken))
	}
	return fmt.Sprintf(`You are an expert %s interview evaluator. Evaluate this answer.

Question: %s

Answer: %s

Respond with ONLY a JSON object (no other text):
%s

Give score 1-10. Be helpful and specific.`, domainName, question, capped, promptExample)
}
