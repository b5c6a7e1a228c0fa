package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
)

// Detector decides whether the interviewer's latest message closes the
// interview. Detection is best-effort: a failure only risks one extra
// turn, so callers fall back to continuing.
type Detector interface {
	ShouldEnd(ctx context.Context, message string) (bool, error)
}

// LLMDetector classifies termination with a lightweight model query
type LLMDetector struct {
	client llm.Client
}

// NewLLMDetector creates a termination detector backed by the lite tier
func NewLLMDetector(client llm.Client) *LLMDetector {
	return &LLMDetector{client: client}
}

// ShouldEnd classifies the interviewer message into continue/end
func (d *LLMDetector) ShouldEnd(ctx context.Context, message string) (bool, error) {
	prompt, err := prompts.Render("termination", map[string]string{"Message": message})
	if err != nil {
		return false, err
	}

	verdict, err := d.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return false, fmt.Errorf("termination classification failed: %w", err)
	}

	verdict = strings.ToUpper(strings.TrimSpace(verdict))
	return strings.HasPrefix(verdict, "END"), nil
}
