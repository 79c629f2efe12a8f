// Package ollama implements domain.LLMClient against a local Ollama server.
package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

const providerName = "ollama"

// Client calls POST {baseURL}/api/generate without streaming.
type Client struct {
	baseURL string
	model   string
	hc      *http.Client
}

// New constructs an Ollama client.
func New(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		hc:      ai.NewHTTPClient(timeout),
	}
}

// Name implements domain.LLMClient.
func (c *Client) Name() string { return providerName }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate implements domain.LLMClient.
func (c *Client) Generate(ctx domain.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: 0.7, NumPredict: 1500},
	})
	if err != nil {
		return "", fmt.Errorf("op=ollama.generate: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=ollama.generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveAIRequest(providerName, "error", time.Since(start))
		return "", fmt.Errorf("op=ollama.generate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ObserveAIRequest(providerName, "status", time.Since(start))
		body := ai.ReadSnippet(resp.Body, 512)
		slog.Warn("ai provider non-2xx", slog.String("provider", providerName), slog.Int("status", resp.StatusCode), slog.String("model", c.model), slog.String("body", body))
		return "", fmt.Errorf("op=ollama.generate: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.ObserveAIRequest(providerName, "decode", time.Since(start))
		return "", fmt.Errorf("op=ollama.generate: %w: decode: %v", domain.ErrUpstream, err)
	}
	observability.ObserveAIRequest(providerName, "ok", time.Since(start))
	return out.Response, nil
}
