package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okMessage = `{
	"id": "msg_1",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5-20250929",
	"content": [{"type": "text", "text": "` + "```a``` ```b```" + `"}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 1, "output_tokens": 1}
}`

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okMessage))
	}))
	defer srv.Close()

	c := NewClient("key", "", time.Second, option.WithBaseURL(srv.URL))
	text, err := c.Complete(context.Background(), llm.UserPrompt("hi", 0.4, 1524))
	require.NoError(t, err)

	assert.Equal(t, "```a``` ```b```", text)
	assert.Equal(t, string(DefaultModel), body["model"])
	assert.EqualValues(t, 1524, body["max_tokens"])
	assert.InDelta(t, 0.4, body["temperature"], 1e-9)
}

func TestCompleteDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"down"}}`))
	}))
	defer srv.Close()

	c := NewClient("key", "", time.Second, option.WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), llm.UserPrompt("hi", 0.5, 10))
	assert.ErrorIs(t, err, llm.ErrTransport)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteWithoutKey(t *testing.T) {
	c := NewClient("", "", time.Second)
	assert.False(t, c.Configured())
	_, err := c.Complete(context.Background(), llm.UserPrompt("hi", 0.5, 10))
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient("key", "", 50*time.Millisecond, option.WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), llm.UserPrompt("hi", 0.5, 10))
	assert.ErrorIs(t, err, llm.ErrTimeout)
}
