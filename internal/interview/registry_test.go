package interview

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(userID uuid.UUID) *Session {
	return NewSession(userID, uuid.New(), uuid.New(), nil)
}

func TestRegistryCreateGetRemove(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	t.Run("get before create", func(t *testing.T) {
		_, ok := r.Get(userID)
		assert.False(t, ok)
	})

	t.Run("create then get", func(t *testing.T) {
		sess := newTestSession(userID)
		r.Create(sess)
		got, ok := r.Get(userID)
		require.True(t, ok)
		assert.Same(t, sess, got)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("last writer wins", func(t *testing.T) {
		replacement := newTestSession(userID)
		r.Create(replacement)
		got, ok := r.Get(userID)
		require.True(t, ok)
		assert.Same(t, replacement, got)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("remove", func(t *testing.T) {
		r.Remove(userID)
		_, ok := r.Get(userID)
		assert.False(t, ok)
	})

	t.Run("remove absent is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			r.Remove(userID)
			r.Remove(uuid.New())
		})
	})
}

func TestRegistryUpdateQuestion(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	sess := newTestSession(userID)
	r.Create(sess)

	t.Run("updates pointer", func(t *testing.T) {
		next := uuid.New()
		assert.True(t, r.UpdateQuestion(userID, next))
		assert.Equal(t, next, sess.QuestionInUse())
	})

	t.Run("missing session", func(t *testing.T) {
		assert.False(t, r.UpdateQuestion(uuid.New(), uuid.New()))
	})
}

func TestRegistryPerUserLockSerializes(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	// A plain int mutated under the per-user lock; the race detector
	// catches any interleaving.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock(userID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestRegistryLocksIndependentPerUser(t *testing.T) {
	r := NewRegistry()
	userA := uuid.New()
	userB := uuid.New()

	unlockA := r.Lock(userA)
	defer unlockA()

	// Another user's lock must not block while A's is held.
	done := make(chan struct{})
	go func() {
		unlockB := r.Lock(userB)
		unlockB()
		close(done)
	}()
	<-done
}
