package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dualsolve/dualsolve/internal/llm"
	"google.golang.org/genai"
)

// Model represents a Google AI model identifier
type Model string

const (
	ModelGemma3_27B   Model = "gemma-3-27b-it"
	ModelGemini2Flash Model = "gemini-2.0-flash"
	ModelGemini2_5Pro Model = "gemini-2.5-pro"
)

var DefaultModel Model = ModelGemini2Flash

type Client struct {
	client  *genai.Client
	model   Model
	timeout time.Duration
}

type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = url
	}
}

// NewClient returns an unconfigured client when apiKey is empty so the
// server can still start and report the missing credential per request.
func NewClient(ctx context.Context, apiKey string, model Model, timeout time.Duration, opts ...Option) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	c := &Client{model: model, timeout: timeout}
	if apiKey == "" {
		return c, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *Client) Provider() string { return "google" }

func (c *Client) Configured() bool { return c.client != nil }

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("google: %w", llm.ErrNotConfigured)
	}

	var contents []*genai.Content
	var system []string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			// Gemma doesn't support system instructions natively, prepend to user message
			system = append(system, m.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			text := m.Content
			if len(system) > 0 {
				text = strings.Join(system, "\n\n") + "\n\n" + text
				system = nil
			}
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}

	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, string(c.model), contents, cfg)
	if err != nil {
		return "", llm.CallError(c.Provider(), err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("google: %w: empty response", llm.ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
