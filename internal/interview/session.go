// Package interview implements the session-scoped interview lifecycle:
// the registry of in-progress interviews, the per-turn state machine,
// termination detection, and the ordered persistence of turns.
package interview

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jonathan/interview-simulator/internal/agent"
)

// State is the lifecycle state of a session
type State string

// Session lifecycle states
const (
	// StateAwaitingAnswer means a question has been served and the next
	// candidate answer is expected
	StateAwaitingAnswer State = "awaiting_answer"
	// StateEvaluating means an answer is being processed; entered and left
	// while the per-user lock is held, so other requests never observe it
	StateEvaluating State = "evaluating"
	// StateEnded is terminal; the session is removed from the registry
	// once finalization completes
	StateEnded State = "ended"
)

// Session is the live state of one user's in-progress interview. The agent
// is exclusively owned by the session; all access is serialized by the
// registry's per-user lock.
type Session struct {
	UserID      uuid.UUID
	InterviewID uuid.UUID

	agent         agent.Agent
	questionInUse uuid.UUID // question currently awaiting an answer
	state         State

	finalized atomic.Bool
}

// NewSession creates a session in StateAwaitingAnswer holding the served
// opening question.
func NewSession(userID, interviewID, questionID uuid.UUID, a agent.Agent) *Session {
	return &Session{
		UserID:        userID,
		InterviewID:   interviewID,
		agent:         a,
		questionInUse: questionID,
		state:         StateAwaitingAnswer,
	}
}

// QuestionInUse returns the id of the question awaiting an answer
func (s *Session) QuestionInUse() uuid.UUID {
	return s.questionInUse
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return s.state
}

// beginFinalize flips the finalize-once guard. It returns false if the
// session was already finalized.
func (s *Session) beginFinalize() bool {
	return s.finalized.CompareAndSwap(false, true)
}
