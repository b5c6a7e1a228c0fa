// Package questions generates interview questions and end-of-interview
// reports from candidate and role materials.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/schemas"
)

// Materials bundles the stored text profiles an interview is built from
type Materials struct {
	Resume      string
	Corporate   string
	Recruitment string
	Job         string
}

// Generator produces an ordered question set for one interview
type Generator struct {
	client llm.Client
	count  int
	logger *zap.Logger
}

// NewGenerator creates a question generator. count is the number of
// questions requested per interview.
func NewGenerator(client llm.Client, count int, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, count: count, logger: logger}
}

// Generate produces the question set, ordered from warm-up to hardest.
// The model reply is schema-checked before use; a malformed reply is an
// error, not a partial result.
func (g *Generator) Generate(ctx context.Context, m Materials, difficulty int) ([]string, error) {
	prompt, err := prompts.Render("question_gen", map[string]string{
		"Count":       strconv.Itoa(g.count),
		"Difficulty":  strconv.Itoa(difficulty),
		"Resume":      m.Resume,
		"Corporate":   m.Corporate,
		"Recruitment": m.Recruitment,
		"Job":         m.Job,
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if err := schemas.Validate(schemas.GeneratedQuestions, []byte(raw)); err != nil {
		return nil, fmt.Errorf("question generation returned invalid JSON: %w", err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	g.logger.Debug("generated questions",
		zap.Int("count", len(questions)),
		zap.Int("difficulty", difficulty))

	return questions, nil
}
