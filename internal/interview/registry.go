package interview

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps user identity to the user's active session. It is the only
// shared mutable structure in the service. Map access is guarded by one
// mutex; turn-level serialization uses the per-user locks handed out by
// Lock, so concurrent answer submissions for the same user never interleave
// their read-modify-write of session state.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	locks    map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the per-user lock and returns the unlock function. Every
// operation that touches a user's session holds this for the whole turn,
// including the external model calls.
func (r *Registry) Lock(userID uuid.UUID) func() {
	r.mu.Lock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Create inserts a session, overwriting any prior session for the same
// user. Last writer wins; a user restarting an interview abandons the old
// session.
func (r *Registry) Create(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.UserID] = s
}

// Get returns the user's active session, or false if none exists
func (r *Registry) Get(userID uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Remove deletes the user's session. Removing an absent session is a
// no-op so concurrent termination paths cannot fail on double removal.
func (r *Registry) Remove(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// UpdateQuestion points the session at the question now awaiting an
// answer. Returns false if the session is gone.
func (r *Registry) UpdateQuestion(userID, questionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return false
	}
	s.questionInUse = questionID
	return true
}

// Len returns the number of active sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
