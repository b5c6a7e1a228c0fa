package interview

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates no in-progress interview exists for the user
type ErrSessionNotFound struct {
	UserID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("interview session not found: %s", e.UserID)
}

// ErrProfileNotFound indicates a referenced profile record is missing
type ErrProfileNotFound struct {
	Kind string // "resume", "corporate", "job"
	ID   uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("%s profile not found: %s", e.Kind, e.ID)
}

// ErrDuplicateFinalize indicates finalize was invoked twice for a session.
// The second invocation is a no-op; this error is logged, never surfaced.
type ErrDuplicateFinalize struct {
	InterviewID uuid.UUID
}

func (e *ErrDuplicateFinalize) Error() string {
	return fmt.Sprintf("interview already finalized: %s", e.InterviewID)
}

// ErrCollaborator wraps a failure of an external collaborator (language
// model, transcriber, or store) during a turn. The session is left
// untouched when this is returned.
type ErrCollaborator struct {
	Op  string
	Err error
}

func (e *ErrCollaborator) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ErrCollaborator) Unwrap() error {
	return e.Err
}
