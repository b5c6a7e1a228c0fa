package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/logging"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/schemas"
)

// chatAgent drives the interview over a single LLM chat session. The
// session history is the interview history.
type chatAgent struct {
	chat      llm.Chat
	audioNote string // prepended to transcribed answers, empty in text mode
	logger    *zap.Logger
}

// Open starts the interview and returns the opening message
func (a *chatAgent) Open(ctx context.Context) (string, error) {
	opening, err := prompts.Get("opening")
	if err != nil {
		return "", err
	}

	reply, err := a.send(ctx, opening)
	if err != nil {
		return "", fmt.Errorf("failed to open interview: %w", err)
	}
	return reply.Message, nil
}

// Invoke feeds a candidate answer to the interviewer
func (a *chatAgent) Invoke(ctx context.Context, turn Turn) (Reply, error) {
	message := turn.Answer
	if a.audioNote != "" {
		message = a.audioNote + message
	}

	reply, err := a.send(ctx, message)
	if err != nil {
		return Reply{}, fmt.Errorf("interview turn failed: %w", err)
	}
	return reply, nil
}

func (a *chatAgent) send(ctx context.Context, message string) (Reply, error) {
	raw, err := a.chat.Send(ctx, message)
	if err != nil {
		return Reply{}, err
	}

	raw = llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.TurnReply, []byte(raw)); err != nil {
		a.logger.Warn("interviewer reply failed schema check",
			zap.String("reply", logging.Truncate(raw, 200)),
			zap.Error(err))
		return Reply{}, fmt.Errorf("interviewer returned malformed reply: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return Reply{}, fmt.Errorf("failed to unmarshal interviewer reply: %w", err)
	}
	return reply, nil
}
