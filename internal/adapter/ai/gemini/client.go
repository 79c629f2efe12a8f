// Package gemini implements domain.LLMClient against the Gemini generateContent API.
package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

const providerName = "gemini"

// Client calls {baseURL}/v1beta/models/{model}:generateContent.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	hc      *http.Client
}

// New constructs a Gemini client. An empty apiKey makes every call fail fast.
func New(baseURL, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		hc:      ai.NewHTTPClient(timeout),
	}
}

// Name implements domain.LLMClient.
func (c *Client) Name() string { return providerName }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate implements domain.LLMClient.
func (c *Client) Generate(ctx domain.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("op=gemini.generate: %w: GEMINI_API_KEY missing", domain.ErrInvalidArgument)
	}
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.7, MaxOutputTokens: 1500},
	})
	if err != nil {
		return "", fmt.Errorf("op=gemini.generate: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=gemini.generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveAIRequest(providerName, "error", time.Since(start))
		return "", fmt.Errorf("op=gemini.generate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ObserveAIRequest(providerName, "status", time.Since(start))
		slog.Warn("ai provider non-2xx", slog.String("provider", providerName), slog.Int("status", resp.StatusCode), slog.String("model", c.model), slog.String("body", ai.ReadSnippet(resp.Body, 512)))
		return "", fmt.Errorf("op=gemini.generate: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.ObserveAIRequest(providerName, "decode", time.Since(start))
		return "", fmt.Errorf("op=gemini.generate: %w: decode: %v", domain.ErrUpstream, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		observability.ObserveAIRequest(providerName, "empty", time.Since(start))
		return "", fmt.Errorf("op=gemini.generate: %w: empty candidates", domain.ErrUpstream)
	}
	observability.ObserveAIRequest(providerName, "ok", time.Since(start))
	return out.Candidates[0].Content.Parts[0].Text, nil
}
