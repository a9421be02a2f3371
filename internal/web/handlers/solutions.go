package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/dualsolve/dualsolve/internal/solver"
)

const (
	msgTimeout       = "The request to the AI service timed out. Please try again."
	msgMissingFields = "A problem description and language are required."
	msgEmptyCode     = "Both code blocks are empty."
	msgInvalidBody   = "invalid JSON body"
)

func notConfiguredMessage(provider string) string {
	return fmt.Sprintf("API key is not configured. Please add your %s_API_KEY to the .env file.", strings.ToUpper(provider))
}

type Solver interface {
	Ready() error
	Provider() string
	Generate(ctx context.Context, problem, language string) (solver.Solutions, error)
	Explain(ctx context.Context, recursiveCode, iterativeCode string) (string, error)
}

type SolutionHandler struct {
	solver Solver
	log    *slog.Logger
}

func NewSolutionHandler(s Solver, log *slog.Logger) *SolutionHandler {
	return &SolutionHandler{solver: s, log: log}
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

type explainRequest struct {
	RecursiveCode string `json:"recursiveCode"`
	IterativeCode string `json:"iterativeCode"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

func (h *SolutionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := h.solver.Ready(); err != nil {
		h.log.ErrorContext(r.Context(), "generate rejected", "provider", h.solver.Provider(), "error", err)
		writeError(w, http.StatusInternalServerError, notConfiguredMessage(h.solver.Provider()))
		return
	}

	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Prompt == "" || req.Language == "" {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	solutions, err := h.solver.Generate(r.Context(), req.Prompt, req.Language)
	if err != nil {
		status, msg := generateFailure(h.solver.Provider(), err)
		h.log.ErrorContext(r.Context(), "generating solutions", "provider", h.solver.Provider(), "kind", llm.Kind(err), "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, solutions)
}

func generateFailure(provider string, err error) (int, string) {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusInternalServerError, notConfiguredMessage(provider)
	case errors.Is(err, llm.ErrTimeout):
		return http.StatusGatewayTimeout, msgTimeout
	case errors.Is(err, llm.ErrMalformedResponse):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to parse the AI response. Details: %v", err)
	case errors.Is(err, llm.ErrTransport):
		return http.StatusInternalServerError, fmt.Sprintf("API request failed: %v", err)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *SolutionHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if strings.TrimSpace(req.RecursiveCode) == "" && strings.TrimSpace(req.IterativeCode) == "" {
		writeError(w, http.StatusBadRequest, msgEmptyCode)
		return
	}

	if err := h.solver.Ready(); err != nil {
		h.log.ErrorContext(r.Context(), "explain rejected", "provider", h.solver.Provider(), "error", err)
		writeError(w, http.StatusInternalServerError, explainFailure(h.solver.Provider(), err))
		return
	}

	explanation, err := h.solver.Explain(r.Context(), req.RecursiveCode, req.IterativeCode)
	if err != nil {
		h.log.ErrorContext(r.Context(), "explaining solutions", "provider", h.solver.Provider(), "kind", llm.Kind(err), "error", err)
		writeError(w, http.StatusInternalServerError, explainFailure(h.solver.Provider(), err))
		return
	}

	writeJSON(w, http.StatusOK, explainResponse{Explanation: explanation})
}

// explainFailure keeps every failure at 500 but words each kind separately.
func explainFailure(provider string, err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "Explanation failed: " + notConfiguredMessage(provider)
	case errors.Is(err, llm.ErrTimeout):
		return "Explanation failed: " + msgTimeout
	case errors.Is(err, llm.ErrMalformedResponse), errors.Is(err, llm.ErrTransport):
		return fmt.Sprintf("Explanation failed: %v", err)
	default:
		return "Explanation failed: internal error"
	}
}
