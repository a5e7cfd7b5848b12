// Package ollama provides a client for Ollama-compatible text generation
// backends over the /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the standard local Ollama address.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "mistral"
	// DefaultTimeout bounds a single generation call. Generation must never
	// block the answer path indefinitely; a timeout surfaces as an ordinary
	// backend failure.
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the generation client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls an Ollama-compatible generation backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Model returns the configured generation model.
func (c *Client) Model() string {
	return c.model
}

// Generate produces a completion for the prompt. Timeouts and connection
// failures return an error; the caller decides how to render it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation backend returned %d: %s", resp.StatusCode, string(payload))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	return out.Response, nil
}
