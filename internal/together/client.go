package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dualsolve/dualsolve/internal/llm"
)

const (
	DefaultURL   = "https://api.together.xyz/v1/chat/completions"
	DefaultModel = "mistralai/Mixtral-8x7B-Instruct-v0.1"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey   string
	endpoint string
	model    string
	timeout  time.Duration
	http     *http.Client
}

func NewClient(apiKey, endpoint, model string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Provider() string { return "together" }

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("together: %w", llm.ErrNotConfigured)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", llm.CallError(c.Provider(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.CallError(c.Provider(), fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("together: %w: unexpected status code %d: %s", llm.ErrTransport, resp.StatusCode, truncate(raw, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// A body that is not JSON at all counts as a failed request; only
		// well-formed JSON missing the expected fields is malformed.
		return "", fmt.Errorf("together: %w: decoding body: %w", llm.ErrTransport, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("together: %w: no choices", llm.ErrMalformedResponse)
	}
	msg := parsed.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", fmt.Errorf("together: %w: first choice has no message content", llm.ErrMalformedResponse)
	}

	return *msg.Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
