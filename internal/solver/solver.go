package solver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/dualsolve/dualsolve/internal/metrics"
	"github.com/samber/lo"
)

const (
	RecursivePlaceholder = "// Recursive solution not found"
	IterativePlaceholder = "// Iterative solution not found"

	solutionTemperature    = 0.5
	solutionMaxTokens      = 2048
	explanationTemperature = 0.4
	explanationMaxTokens   = 1524
)

type Solutions struct {
	Recursive string `json:"recursive_solution"`
	Iterative string `json:"iterative_solution"`
}

type Service struct {
	llm llm.Client
}

func NewService(client llm.Client) *Service {
	return &Service{llm: client}
}

// Ready returns llm.ErrNotConfigured when the underlying client has no credential.
func (s *Service) Ready() error {
	if !s.llm.Configured() {
		return fmt.Errorf("%s: %w", s.llm.Provider(), llm.ErrNotConfigured)
	}
	return nil
}

func (s *Service) Provider() string {
	return s.llm.Provider()
}

// Generate asks for a recursive and an iterative solution. Missing blocks are
// replaced with placeholders rather than failing.
func (s *Service) Generate(ctx context.Context, problem, language string) (Solutions, error) {
	prompt := BuildSolutionPrompt(problem, language)
	text, err := s.complete(ctx, "generate", llm.UserPrompt(prompt, solutionTemperature, solutionMaxTokens))
	if err != nil {
		return Solutions{}, err
	}

	blocks := llm.ExtractCodeBlocks(text)
	return Solutions{
		Recursive: nthOr(blocks, 0, RecursivePlaceholder),
		Iterative: nthOr(blocks, 1, IterativePlaceholder),
	}, nil
}

// Explain returns the model's explanation text as-is.
func (s *Service) Explain(ctx context.Context, recursiveCode, iterativeCode string) (string, error) {
	prompt := BuildExplanationPrompt(strings.TrimSpace(recursiveCode), strings.TrimSpace(iterativeCode))
	return s.complete(ctx, "explain", llm.UserPrompt(prompt, explanationTemperature, explanationMaxTokens))
}

func (s *Service) complete(ctx context.Context, operation string, req llm.Request) (string, error) {
	start := time.Now()
	text, err := s.llm.Complete(ctx, req)
	metrics.LLMCallDuration.WithLabelValues(s.llm.Provider(), operation, llm.Kind(err)).Observe(time.Since(start).Seconds())
	return text, err
}

func nthOr(blocks []string, n int, fallback string) string {
	if v, err := lo.Nth(blocks, n); err == nil {
		return v
	}
	return fallback
}
