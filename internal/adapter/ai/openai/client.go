// Package openai implements domain.LLMClient for any OpenAI-compatible chat
// completions endpoint (OpenAI, OpenRouter, Groq).
package openai

import (
	"errors"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

const providerName = "openai"

// Client wraps a go-openai client bound to one model.
type Client struct {
	client *goopenai.Client
	model  string
	hasKey bool
}

// New constructs a client. baseURL may point at any compatible endpoint.
func New(baseURL, model, apiKey string, timeout time.Duration) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = ai.NewHTTPClient(timeout)
	return &Client{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
		hasKey: apiKey != "",
	}
}

// Name implements domain.LLMClient.
func (c *Client) Name() string { return providerName }

// Generate implements domain.LLMClient.
func (c *Client) Generate(ctx domain.Context, prompt string) (string, error) {
	if !c.hasKey {
		return "", fmt.Errorf("op=openai.generate: %w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: ai.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			observability.ObserveAIRequest(providerName, "status", time.Since(start))
			return "", fmt.Errorf("op=openai.generate: %w: status %d: %s", domain.ErrUpstream, apiErr.HTTPStatusCode, apiErr.Message)
		}
		observability.ObserveAIRequest(providerName, "error", time.Since(start))
		return "", fmt.Errorf("op=openai.generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		observability.ObserveAIRequest(providerName, "empty", time.Since(start))
		return "", fmt.Errorf("op=openai.generate: %w: empty choices", domain.ErrUpstream)
	}
	observability.ObserveAIRequest(providerName, "ok", time.Since(start))
	return resp.Choices[0].Message.Content, nil
}
