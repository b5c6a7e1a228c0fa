package questions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
)

// Turn is one question/answer/feedback cycle of a finished interview
type Turn struct {
	Question string
	Answer   string
	Feedback string
}

// FinalFeedbackGenerator writes the aggregate end-of-interview evaluation
type FinalFeedbackGenerator struct {
	client llm.Client
	logger *zap.Logger
}

// NewFinalFeedbackGenerator creates a final feedback generator
func NewFinalFeedbackGenerator(client llm.Client, logger *zap.Logger) *FinalFeedbackGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinalFeedbackGenerator{client: client, logger: logger}
}

// Generate produces the overall candidate evaluation from the transcript
func (g *FinalFeedbackGenerator) Generate(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("no turns to evaluate")
	}

	prompt, err := prompts.Render("final_feedback", map[string]string{
		"Transcript": formatTranscript(turns),
	})
	if err != nil {
		return "", err
	}

	feedback, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("final feedback generation failed: %w", err)
	}

	g.logger.Debug("generated final feedback", zap.Int("turns", len(turns)))
	return feedback, nil
}

func formatTranscript(turns []Turn) string {
	var sb strings.Builder
	for i, turn := range turns {
		fmt.Fprintf(&sb, "Q%d: %s\n", i+1, turn.Question)
		if turn.Answer != "" {
			fmt.Fprintf(&sb, "A%d: %s\n", i+1, turn.Answer)
		}
		if turn.Feedback != "" {
			fmt.Fprintf(&sb, "Feedback: %s\n", turn.Feedback)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
