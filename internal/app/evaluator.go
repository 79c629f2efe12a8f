package app

import (
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai/ollama"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai/openai"
	"github.com/fairyhunter13/ai-mock-interview/internal/config"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// BuildEvaluator assembles the evaluation chain from AI_PROVIDER and
// AI_SECONDARY_PROVIDER. The heuristic always closes the chain. A remote
// provider missing its API key is left out with a warning.
func BuildEvaluator(cfg config.Config) *ai.Chain {
	var links []ai.Link
	seen := map[string]bool{}
	for _, name := range []string{cfg.AIProvider, cfg.AISecondaryProvider} {
		if name == "" || name == config.ProviderHeuristic || seen[name] {
			continue
		}
		seen[name] = true
		client, model, ok := newLLMClient(cfg, name)
		if !ok {
			slog.Warn("evaluation provider skipped: missing api key", slog.String("provider", name))
			continue
		}
		prompt := ai.PromptBuilder{Model: model, MaxAnswerToken: cfg.AIMaxAnswerTokens}
		links = append(links, ai.Link{
			Name:      name,
			Evaluator: ai.NewRemoteEvaluator(client, prompt),
			Breaker:   ai.NewCircuitBreaker(name),
		})
	}
	chain := ai.NewChain(links...)
	slog.Info("evaluation chain configured", slog.Any("providers", chain.Providers()))
	return chain
}

func newLLMClient(cfg config.Config, name string) (domain.LLMClient, string, bool) {
	switch name {
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.OllamaModel, cfg.AIRequestTimeout), cfg.OllamaModel, true
	case config.ProviderGemini:
		if cfg.GeminiKey() == "" {
			return nil, "", false
		}
		return gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiKey(), cfg.AIRequestTimeout), cfg.GeminiModel, true
	case config.ProviderOpenAI:
		if cfg.OpenAIKey() == "" {
			return nil, "", false
		}
		return openai.New(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIKey(), cfg.AIRequestTimeout), cfg.OpenAIModel, true
	}
	return nil, "", false
}
