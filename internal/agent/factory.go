package agent

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
)

// Config holds the parameters baked into an agent at construction
type Config struct {
	Style      Style
	Difficulty int // 1-3
	Mode       Mode
	Questions  []string // prepared question set, in order

	// Stored profile texts
	Resume      string
	Corporate   string
	Recruitment string
	Job         string
}

// Factory constructs interviewer agents. Variant selection (text vs audio)
// is hidden here; callers only see the Agent interface.
type Factory struct {
	client llm.Client
	logger *zap.Logger
}

// NewFactory creates an agent factory
func NewFactory(client llm.Client, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{client: client, logger: logger}
}

// New constructs an agent for one interview
func (f *Factory) New(cfg Config) (Agent, error) {
	if cfg.Difficulty < 1 || cfg.Difficulty > 3 {
		return nil, fmt.Errorf("difficulty level out of range: %d", cfg.Difficulty)
	}
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("agent requires at least one prepared question")
	}

	system, err := prompts.Render(personaKey(cfg.Style), map[string]string{
		"Questions":   formatQuestionList(cfg.Questions),
		"Resume":      cfg.Resume,
		"Corporate":   cfg.Corporate,
		"Recruitment": cfg.Recruitment,
		"Job":         cfg.Job,
		"Difficulty":  strconv.Itoa(cfg.Difficulty),
	})
	if err != nil {
		return nil, err
	}

	a := &chatAgent{
		chat:   f.client.StartChat(system, llm.TierAdvanced),
		logger: f.logger,
	}

	if cfg.Mode == ModeAudio {
		note, err := prompts.Get("audio_note")
		if err != nil {
			return nil, err
		}
		a.audioNote = note
	}

	return a, nil
}

func personaKey(style Style) string {
	switch style {
	case StyleGentle:
		return "persona_gentle"
	case StylePressure:
		return "persona_pressure"
	default:
		return "persona_standard"
	}
}

func formatQuestionList(questions []string) string {
	var sb strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return strings.TrimSpace(sb.String())
}
