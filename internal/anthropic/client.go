package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dualsolve/dualsolve/internal/llm"
)

// Re-export Model type and constants for external use
type Model = anthropic.Model

const (
	ModelClaudeSonnet4_5 Model = anthropic.ModelClaudeSonnet4_5_20250929
	ModelClaudeHaiku4_5  Model = anthropic.ModelClaudeHaiku4_5_20251001
	ModelClaudeOpus4_5   Model = anthropic.ModelClaudeOpus4_5_20251101
)

var DefaultModel Model = ModelClaudeSonnet4_5

type Client struct {
	client     anthropic.Client
	model      Model
	timeout    time.Duration
	configured bool
}

func NewClient(apiKey string, model Model, timeout time.Duration, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	// The SDK retries by default; a call here is always a single attempt.
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Client{
		client:     anthropic.NewClient(opts...),
		model:      model,
		timeout:    timeout,
		configured: apiKey != "",
	}
}

func (c *Client) Provider() string { return "anthropic" }

func (c *Client) Configured() bool { return c.configured }

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("anthropic: %w", llm.ErrNotConfigured)
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", llm.CallError(c.Provider(), err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(textBlock.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w: no text content in response", llm.ErrMalformedResponse)
	}

	return sb.String(), nil
}
