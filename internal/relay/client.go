// Package relay forwards free-form chat to a language-model completion API
// and post-processes the reply.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/davidshroff27/leadscout/internal/metrics"
)

// ClientConfig holds completion request parameters.
type ClientConfig struct {
	BaseURL     string
	Token       string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client posts prompts to the completion endpoint.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient constructs a completion Client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Complete sends prompt to the completion endpoint and returns the reply
// text. Unlike the scraper and email-finder paths, failures here surface as
// errors so the caller can emit a distinct relay-failure message.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstreamCall("relay", "error")
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveUpstreamCall("relay", "error")
		return "", fmt.Errorf("completion request: unexpected status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		metrics.ObserveUpstreamCall("relay", "error")
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		metrics.ObserveUpstreamCall("relay", "error")
		return "", fmt.Errorf("completion response has no choices")
	}

	metrics.ObserveUpstreamCall("relay", "ok")
	return completion.Choices[0].Text, nil
}
