// Package groq is a stateless client for the Groq chat-completions API. One
// request, one response: no retries, no streaming. A non-success status
// surfaces the remote error message verbatim as the failure reason.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "openai/gpt-oss-120b"

	// systemPrompt pins the output style for every completion. LinkedIn does
	// not render markdown, so the model is told to emphasize with uppercase
	// and line breaks instead.
	systemPrompt = "You are a professional LinkedIn content creator who writes authentic, engaging posts. " +
		"CRITICAL: LinkedIn does NOT render markdown. Never use **asterisks** for bold or *asterisks* for italics. " +
		"For emphasis, use UPPERCASE words, emojis, or line breaks. Focus on learning and growth. " +
		"Never sound promotional or use clichés."
)

// Client talks to the Groq API. The base URL is overridable for tests.
type Client struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewClient returns a Client with production defaults.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Model:      defaultModel,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
}

func (c *Client) post(ctx context.Context, apiKey string, reqBody completionRequest) (*http.Response, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	return c.HTTPClient.Do(req)
}

// Complete sends the prompt and returns the trimmed message text of the first
// choice. On a non-success status the remote error message is surfaced as the
// failure reason when present.
func (c *Client) Complete(ctx context.Context, prompt, apiKey string) (string, error) {
	resp, err := c.post(ctx, apiKey, completionRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        1,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data completionResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && data.Error != nil && data.Error.Message != "" {
			return "", fmt.Errorf("%s", data.Error.Message)
		}
		return "", fmt.Errorf("API request failed (status %d)", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decoding response: %w", decodeErr)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(data.Choices[0].Message.Content), nil
}

// ValidateKey issues a minimal-cost completion and reports whether the key is
// accepted. It returns false on any failure, including network errors; it
// never returns an error.
func (c *Client) ValidateKey(ctx context.Context, apiKey string) bool {
	resp, err := c.post(ctx, apiKey, completionRequest{
		Model:     c.Model,
		Messages:  []message{{Role: "user", Content: "Hi"}},
		MaxTokens: 5,
	})
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
