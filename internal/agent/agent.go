// Package agent implements the conversational interviewer. An agent is
// constructed once per interview with the persona, difficulty, and prepared
// questions baked in, keeps the dialogue history for the interview's
// lifetime, and is exclusively owned by its session.
package agent

import (
	"context"
	"fmt"
)

// Style is the interviewer persona
type Style string

// Interviewer personas
const (
	StyleStandard Style = "standard"
	StyleGentle   Style = "gentle"
	StylePressure Style = "pressure"
)

// ParseStyle validates and normalizes a style string
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleStandard, StyleGentle, StylePressure:
		return Style(s), nil
	default:
		return "", fmt.Errorf("unknown interview style: %q", s)
	}
}

// Mode selects the input channel variant of an agent
type Mode string

// Agent input modes
const (
	ModeText  Mode = "text"
	ModeAudio Mode = "audio"
)

// Turn is one candidate input
type Turn struct {
	// Answer is the candidate's answer text. For audio turns this is the
	// transcription.
	Answer string
}

// Reply is what the agent produces for a turn
type Reply struct {
	Message         string `json:"message"`
	Feedback        string `json:"feedback"`
	ExemplaryAnswer string `json:"exemplary_answer"`
}

// Agent is the capability surface shared by all interviewer variants.
// Implementations are stateful and not safe for concurrent use; the owning
// session serializes calls.
type Agent interface {
	// Open starts the interview and returns the opening message
	Open(ctx context.Context) (string, error)
	// Invoke feeds a candidate turn to the interviewer and returns the
	// next message plus feedback on the answer just given
	Invoke(ctx context.Context, turn Turn) (Reply, error)
}
