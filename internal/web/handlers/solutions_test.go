package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/dualsolve/dualsolve/internal/llm/llmtest"
	"github.com/dualsolve/dualsolve/internal/solver"
	"github.com/dualsolve/dualsolve/internal/together"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(client llm.Client) *SolutionHandler {
	return NewSolutionHandler(solver.NewService(client), discardLogger())
}

func do(t *testing.T, h http.HandlerFunc, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec.Code, out
}

func configuredClient() *llmtest.MockClient {
	c := &llmtest.MockClient{}
	c.On("Configured").Return(true)
	return c
}

func TestGenerateSuccess(t *testing.T) {
	client := configuredClient()
	client.On("Complete", mock.Anything, mock.Anything).
		Return("```python\ndef f(n): return f(n-1)\n```\n```python\ndef g(n): pass\n```", nil)

	code, out := do(t, newHandler(client).Generate, `{"prompt":"factorial","language":"Python"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "python\ndef f(n): return f(n-1)", out["recursive_solution"])
	assert.Equal(t, "python\ndef g(n): pass", out["iterative_solution"])
	assert.NotContains(t, out, "error")
}

func TestGenerateSingleBlockUsesPlaceholder(t *testing.T) {
	client := configuredClient()
	client.On("Complete", mock.Anything, mock.Anything).Return("```only```", nil)

	code, out := do(t, newHandler(client).Generate, `{"prompt":"p","language":"Go"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "only", out["recursive_solution"])
	assert.Equal(t, solver.IterativePlaceholder, out["iterative_solution"])
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty prompt", `{"prompt":"","language":"Python"}`, msgMissingFields},
		{"missing language", `{"prompt":"x"}`, msgMissingFields},
		{"empty object", `{}`, msgMissingFields},
		{"invalid json", `{nope`, msgInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := configuredClient()
			code, out := do(t, newHandler(client).Generate, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.want, out["error"])
			client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	for _, body := range []string{`{"prompt":"x","language":"Go"}`, `{}`, `garbage`} {
		client := &llmtest.MockClient{}
		client.On("Configured").Return(false)

		code, out := do(t, newHandler(client).Generate, body)
		assert.Equal(t, http.StatusInternalServerError, code, "body %s", body)
		assert.Contains(t, out["error"], "API key is not configured")
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	}
}

func TestGenerateFailureKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"timeout", fmt.Errorf("mock: %w", llm.ErrTimeout), http.StatusGatewayTimeout, "timed out"},
		{"transport", fmt.Errorf("mock: %w: 503", llm.ErrTransport), http.StatusInternalServerError, "API request failed"},
		{"malformed", fmt.Errorf("mock: %w", llm.ErrMalformedResponse), http.StatusInternalServerError, "Failed to parse the AI response"},
		{"not configured", fmt.Errorf("mock: %w", llm.ErrNotConfigured), http.StatusInternalServerError, "API key is not configured"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := configuredClient()
			client.On("Complete", mock.Anything, mock.Anything).Return("", tt.err)

			code, out := do(t, newHandler(client).Generate, `{"prompt":"p","language":"Go"}`)
			assert.Equal(t, tt.wantStatus, code)
			assert.Contains(t, out["error"], tt.wantMsg)
			assert.NotContains(t, out, "recursive_solution")
		})
	}
}

func TestGenerateRemoteTimeoutReturns504(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	h := newHandler(together.NewClient("k", srv.URL, "", 50*time.Millisecond))
	code, out := do(t, h.Generate, `{"prompt":"p","language":"Go"}`)
	assert.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, msgTimeout, out["error"])
}

func TestExplainSuccess(t *testing.T) {
	client := configuredClient()
	client.On("Complete", mock.Anything, mock.Anything).Return("## Explanation", nil)

	code, out := do(t, newHandler(client).Explain, `{"recursiveCode":"def f(): pass","iterativeCode":""}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "## Explanation", out["explanation"])
}

func TestExplainValidation(t *testing.T) {
	for _, body := range []string{
		`{"recursiveCode":"","iterativeCode":""}`,
		`{"recursiveCode":"  \n","iterativeCode":"\t"}`,
		`{}`,
	} {
		client := configuredClient()
		code, out := do(t, newHandler(client).Explain, body)
		assert.Equal(t, http.StatusBadRequest, code, "body %s", body)
		assert.Equal(t, msgEmptyCode, out["error"])
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	}
}

func TestExplainFailuresAre500(t *testing.T) {
	for _, kind := range []error{llm.ErrTimeout, llm.ErrTransport, llm.ErrMalformedResponse, context.Canceled} {
		client := configuredClient()
		client.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("mock: %w", kind))

		code, out := do(t, newHandler(client).Explain, `{"recursiveCode":"a","iterativeCode":"b"}`)
		assert.Equal(t, http.StatusInternalServerError, code, "kind %v", kind)
		assert.True(t, strings.HasPrefix(out["error"], "Explanation failed: "), out["error"])
	}
}

func TestExplainMissingCredential(t *testing.T) {
	client := &llmtest.MockClient{}
	client.On("Configured").Return(false)

	code, out := do(t, newHandler(client).Explain, `{"recursiveCode":"a","iterativeCode":"b"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, out["error"], "MOCK_API_KEY")
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
