package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Failure kinds every Client reports. Implementations wrap the underlying
// cause so callers can classify with errors.Is.
var (
	ErrNotConfigured     = errors.New("api key is not configured")
	ErrTimeout           = errors.New("request timed out")
	ErrTransport         = errors.New("request failed")
	ErrMalformedResponse = errors.New("malformed response")
)

const DefaultTimeout = 45 * time.Second

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// UserPrompt builds a single-message request.
func UserPrompt(prompt string, temperature float64, maxTokens int) Request {
	return Request{
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

type Client interface {
	// Complete issues exactly one outbound call and returns the assistant text.
	Complete(ctx context.Context, req Request) (string, error)
	// Configured reports whether a credential is present. When false,
	// Complete fails with ErrNotConfigured without touching the network.
	Configured() bool
	Provider() string
}

// Kind names the failure class of err for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

// CallError wraps a failed outbound call as ErrTimeout when a deadline was
// hit, and as ErrTransport otherwise.
func CallError(provider string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %w", provider, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, ErrTransport, err)
}

const fence = "```"

// ExtractCodeBlocks returns the contents of every ```-fenced segment in text,
// trimmed and in order. Text without any fence comes back whole as a single
// block. An unterminated trailing fence still yields its segment, and any
// language tag after an opening fence stays part of the block.
func ExtractCodeBlocks(text string) []string {
	if !strings.Contains(text, fence) {
		return []string{strings.TrimSpace(text)}
	}
	parts := strings.Split(text, fence)
	return lo.FilterMap(parts, func(part string, i int) (string, bool) {
		return strings.TrimSpace(part), i%2 == 1
	})
}
