package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-simulator/internal/agent"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/questions"
)

const (
	testTriggerPhrase = "차라리 날 죽여라!"
	testTriggerReply  = "죽어라!!"
)

type fakeProfiles struct {
	resumes map[uuid.UUID]*db.Resume
	corps   map[uuid.UUID]*db.CorporateProfile
	jobs    map[uuid.UUID]*db.JobProfile
	err     error
}

func (f *fakeProfiles) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	return f.resumes[id], f.err
}

func (f *fakeProfiles) GetCorporateProfile(_ context.Context, id uuid.UUID) (*db.CorporateProfile, error) {
	return f.corps[id], f.err
}

func (f *fakeProfiles) GetJobProfile(_ context.Context, id uuid.UUID) (*db.JobProfile, error) {
	return f.jobs[id], f.err
}

type storedQuestion struct {
	id          uuid.UUID
	interviewID uuid.UUID
	text        string
	answer      *string
	feedback    *string
	exemplary   *string
}

// memStore is an in-memory InterviewStore. It keeps an operation log so
// tests can assert persistence ordering, and is safe for use from the
// background finalization goroutine.
type memStore struct {
	mu            sync.Mutex
	ops           []string
	interviews    map[uuid.UUID]db.InterviewParams
	finalFeedback map[uuid.UUID]string
	questions     []*storedQuestion

	failRecordTurn     error
	failUpdateFeedback error
	failFinal          error
}

func newMemStore() *memStore {
	return &memStore{
		interviews:    make(map[uuid.UUID]db.InterviewParams),
		finalFeedback: make(map[uuid.UUID]string),
	}
}

func (m *memStore) SaveInterview(_ context.Context, params db.InterviewParams) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.interviews[id] = params
	m.ops = append(m.ops, "save_interview")
	return id, nil
}

func (m *memStore) SaveQuestion(_ context.Context, text string, interviewID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.questions = append(m.questions, &storedQuestion{id: id, interviewID: interviewID, text: text})
	m.ops = append(m.ops, "save_question")
	return id, nil
}

func (m *memStore) RecordTurn(_ context.Context, answer, feedback, exemplaryAnswer string, prevQuestionID uuid.UUID, newQuestionText string, interviewID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRecordTurn != nil {
		return uuid.Nil, m.failRecordTurn
	}
	prev := m.findLocked(prevQuestionID)
	if prev == nil {
		return uuid.Nil, fmt.Errorf("question not found: %s", prevQuestionID)
	}
	prev.answer = &answer
	prev.feedback = &feedback
	prev.exemplary = &exemplaryAnswer
	id := uuid.New()
	m.questions = append(m.questions, &storedQuestion{id: id, interviewID: interviewID, text: newQuestionText})
	m.ops = append(m.ops, "record_turn")
	return id, nil
}

func (m *memStore) UpdateFeedback(_ context.Context, answer, feedback, exemplaryAnswer string, questionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateFeedback != nil {
		return m.failUpdateFeedback
	}
	q := m.findLocked(questionID)
	if q == nil {
		return fmt.Errorf("question not found: %s", questionID)
	}
	q.answer = &answer
	q.feedback = &feedback
	q.exemplary = &exemplaryAnswer
	m.ops = append(m.ops, "update_feedback")
	return nil
}

func (m *memStore) UpdateFinalFeedback(_ context.Context, interviewID uuid.UUID, feedback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFinal != nil {
		return m.failFinal
	}
	m.finalFeedback[interviewID] = feedback
	m.ops = append(m.ops, "update_final_feedback")
	return nil
}

func (m *memStore) ListQuestions(_ context.Context, interviewID uuid.UUID) ([]db.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Question
	for _, q := range m.questions {
		if q.interviewID != interviewID {
			continue
		}
		out = append(out, db.Question{
			ID:              q.id,
			InterviewID:     q.interviewID,
			Text:            q.text,
			Answer:          q.answer,
			Feedback:        q.feedback,
			ExemplaryAnswer: q.exemplary,
		})
	}
	return out, nil
}

func (m *memStore) findLocked(id uuid.UUID) *storedQuestion {
	for _, q := range m.questions {
		if q.id == id {
			return q
		}
	}
	return nil
}

func (m *memStore) question(id uuid.UUID) *storedQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(id)
}

func (m *memStore) opLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

func (m *memStore) questionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

func (m *memStore) lastQuestion() *storedQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.questions) == 0 {
		return nil
	}
	return m.questions[len(m.questions)-1]
}

func (m *memStore) finalFeedbackFor(id uuid.UUID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.finalFeedback[id]
	return fb, ok
}

type fakeAgent struct {
	opening string
	err     error
	turns   int
	invoked []string
}

func (a *fakeAgent) Open(context.Context) (string, error) {
	return a.opening, nil
}

func (a *fakeAgent) Invoke(_ context.Context, turn agent.Turn) (agent.Reply, error) {
	if a.err != nil {
		return agent.Reply{}, a.err
	}
	a.turns++
	a.invoked = append(a.invoked, turn.Answer)
	return agent.Reply{
		Message:         fmt.Sprintf("follow-up question %d", a.turns),
		Feedback:        fmt.Sprintf("feedback %d", a.turns),
		ExemplaryAnswer: fmt.Sprintf("exemplary answer %d", a.turns),
	}, nil
}

type fakeFactory struct {
	agent *fakeAgent
	cfg   agent.Config
	err   error
}

func (f *fakeFactory) New(cfg agent.Config) (agent.Agent, error) {
	f.cfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	return f.agent, nil
}

type fakeGenerator struct {
	set        []string
	err        error
	materials  questions.Materials
	difficulty int
}

func (g *fakeGenerator) Generate(_ context.Context, m questions.Materials, difficulty int) ([]string, error) {
	g.materials = m
	g.difficulty = difficulty
	return g.set, g.err
}

type fakeReporter struct {
	mu     sync.Mutex
	report string
	err    error
	turns  []questions.Turn
}

func (r *fakeReporter) Generate(_ context.Context, turns []questions.Turn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = turns
	return r.report, r.err
}

func (r *fakeReporter) received() []questions.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turns
}

type fakeTranscriber struct {
	text     string
	err      error
	filename string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ io.Reader, filename string) (string, error) {
	f.filename = filename
	return f.text, f.err
}

type fakeDetector struct {
	endOn map[string]bool
	err   error
}

func (d *fakeDetector) ShouldEnd(_ context.Context, message string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.endOn[message], nil
}

type fixture struct {
	svc       *Service
	profiles  *fakeProfiles
	store     *memStore
	factory   *fakeFactory
	generator *fakeGenerator
	reporter  *fakeReporter
	transcr   *fakeTranscriber
	detector  *fakeDetector
	req       StartRequest
}

func newFixture() *fixture {
	userID := uuid.New()
	resumeID := uuid.New()
	corpID := uuid.New()
	jobID := uuid.New()

	f := &fixture{
		profiles: &fakeProfiles{
			resumes: map[uuid.UUID]*db.Resume{resumeID: {ID: resumeID, Content: "backend engineer, five years"}},
			corps:   map[uuid.UUID]*db.CorporateProfile{corpID: {ID: corpID, Content: "payments platform company"}},
			jobs:    map[uuid.UUID]*db.JobProfile{jobID: {ID: jobID, Content: "senior backend role", Recruitment: "hiring for the core team"}},
		},
		store: newMemStore(),
		factory: &fakeFactory{agent: &fakeAgent{
			opening: "Tell me about your most challenging project.",
		}},
		generator: &fakeGenerator{set: []string{
			"Tell me about your most challenging project.",
			"How do you handle failure in distributed writes?",
			"Why this company?",
		}},
		reporter: &fakeReporter{report: "Strong fundamentals, work on concision."},
		transcr:  &fakeTranscriber{text: "I led the migration to the new ledger."},
		detector: &fakeDetector{endOn: map[string]bool{}},
		req: StartRequest{
			UserID:      userID,
			ResumeID:    resumeID,
			CorporateID: corpID,
			JobID:       jobID,
			Style:       "pressure",
			Difficulty:  2,
		},
	}
	f.svc = NewService(Options{
		Profiles:      f.profiles,
		Store:         f.store,
		Factory:       f.factory,
		Generator:     f.generator,
		Reporter:      f.reporter,
		Transcriber:   f.transcr,
		Detector:      f.detector,
		TriggerPhrase: testTriggerPhrase,
		TriggerReply:  testTriggerReply,
	})
	return f
}

func TestServiceStart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)

	assert.Equal(t, f.req.UserID, result.SessionID)
	assert.Equal(t, "Tell me about your most challenging project.", result.Message)

	params, ok := f.store.interviews[result.InterviewID]
	require.True(t, ok)
	assert.Equal(t, "pressure", params.Style)
	assert.Equal(t, 2, params.Difficulty)
	assert.Equal(t, f.req.UserID, params.UserID)

	assert.Equal(t, 2, f.generator.difficulty)
	assert.Equal(t, "backend engineer, five years", f.generator.materials.Resume)
	assert.Equal(t, "payments platform company", f.generator.materials.Corporate)
	assert.Equal(t, "senior backend role", f.generator.materials.Job)
	assert.Equal(t, "hiring for the core team", f.generator.materials.Recruitment)

	assert.Equal(t, f.generator.set, f.factory.cfg.Questions)
	assert.Equal(t, agent.ModeText, f.factory.cfg.Mode)

	// Opening question is persisted and held by the registered session.
	last := f.store.lastQuestion()
	require.NotNil(t, last)
	assert.Equal(t, result.Message, last.text)

	sess, ok := f.svc.Registry().Get(f.req.UserID)
	require.True(t, ok)
	assert.Equal(t, last.id, sess.QuestionInUse())
	assert.Equal(t, StateAwaitingAnswer, sess.State())
}

func TestServiceStartInvalidStyle(t *testing.T) {
	f := newFixture()
	f.req.Style = "brutal"

	_, err := f.svc.Start(context.Background(), f.req)
	require.Error(t, err)
	assert.Empty(t, f.store.opLog())
}

func TestServiceStartMissingProfile(t *testing.T) {
	f := newFixture()
	delete(f.profiles.jobs, f.req.JobID)

	_, err := f.svc.Start(context.Background(), f.req)

	var notFound *ErrProfileNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "job", notFound.Kind)

	assert.Empty(t, f.store.opLog())
	assert.Equal(t, 0, f.svc.Registry().Len())
}

func TestServiceStartGeneratorFailure(t *testing.T) {
	f := newFixture()
	f.generator.err = errors.New("model unavailable")

	_, err := f.svc.Start(context.Background(), f.req)

	var collab *ErrCollaborator
	require.ErrorAs(t, err, &collab)
	assert.Empty(t, f.store.opLog())
	assert.Equal(t, 0, f.svc.Registry().Len())
}

func TestServiceSubmitAnswer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)
	openingID := f.store.lastQuestion().id

	result, err := f.svc.SubmitAnswer(ctx, f.req.UserID, "I rebuilt the billing pipeline.")
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, result.Status)
	assert.Equal(t, "follow-up question 1", result.Message)

	// Feedback lands on the question that was answered.
	answered := f.store.question(openingID)
	require.NotNil(t, answered)
	require.NotNil(t, answered.answer)
	assert.Equal(t, "I rebuilt the billing pipeline.", *answered.answer)
	assert.Equal(t, "feedback 1", *answered.feedback)
	assert.Equal(t, "exemplary answer 1", *answered.exemplary)

	// The next message becomes the new question in use.
	next := f.store.lastQuestion()
	assert.Equal(t, "follow-up question 1", next.text)
	sess, ok := f.svc.Registry().Get(f.req.UserID)
	require.True(t, ok)
	assert.Equal(t, next.id, sess.QuestionInUse())
	assert.Equal(t, StateAwaitingAnswer, sess.State())

	_, hasFinal := f.store.finalFeedbackFor(started.InterviewID)
	assert.False(t, hasFinal)
}

func TestServiceSubmitAnswerNoSession(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SubmitAnswer(context.Background(), uuid.New(), "hello")

	var notFound *ErrSessionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestServiceSubmitAnswerAgentFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)
	before := f.store.opLog()
	sess, _ := f.svc.Registry().Get(f.req.UserID)
	questionBefore := sess.QuestionInUse()

	f.factory.agent.err = errors.New("model timeout")
	_, err = f.svc.SubmitAnswer(ctx, f.req.UserID, "an answer")

	var collab *ErrCollaborator
	require.ErrorAs(t, err, &collab)

	// A failed turn leaves both the store and the session untouched.
	assert.Equal(t, before, f.store.opLog())
	assert.Equal(t, questionBefore, sess.QuestionInUse())
	assert.Equal(t, StateAwaitingAnswer, sess.State())
}

func TestServiceSubmitAnswerPersistFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)
	sess, _ := f.svc.Registry().Get(f.req.UserID)
	questionBefore := sess.QuestionInUse()
	countBefore := f.store.questionCount()

	f.store.failRecordTurn = errors.New("connection reset")
	_, err = f.svc.SubmitAnswer(ctx, f.req.UserID, "an answer")

	var collab *ErrCollaborator
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, countBefore, f.store.questionCount())
	assert.Equal(t, questionBefore, sess.QuestionInUse())
	assert.Equal(t, StateAwaitingAnswer, sess.State())

	// The session stays usable after the failure.
	f.store.failRecordTurn = nil
	result, err := f.svc.SubmitAnswer(ctx, f.req.UserID, "an answer")
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, result.Status)
}

func TestServiceTerminationDetected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, f.req.UserID, "first answer")
	require.NoError(t, err)

	// The next interviewer message is a closing statement.
	f.detector.endOn["follow-up question 2"] = true
	result, err := f.svc.SubmitAnswer(ctx, f.req.UserID, "second answer")
	require.NoError(t, err)
	assert.Equal(t, StatusEnd, result.Status)
	assert.Equal(t, "follow-up question 2", result.Message)

	f.svc.Close()

	// Finalization removed the session and wrote the terminal sequence.
	assert.Equal(t, 0, f.svc.Registry().Len())

	last := f.store.lastQuestion()
	require.NotNil(t, last)
	require.NotNil(t, last.feedback)
	assert.Equal(t, "second answer", *last.answer)
	assert.Equal(t, "end", *last.feedback)
	assert.Equal(t, "end", *last.exemplary)

	finalFeedback, ok := f.store.finalFeedbackFor(started.InterviewID)
	require.True(t, ok)
	assert.Equal(t, "Strong fundamentals, work on concision.", finalFeedback)

	// Terminal marker strictly precedes the final feedback write.
	ops := f.store.opLog()
	markerIdx := indexOf(ops, "update_feedback")
	finalIdx := indexOf(ops, "update_final_feedback")
	require.GreaterOrEqual(t, markerIdx, 0)
	require.GreaterOrEqual(t, finalIdx, 0)
	assert.Less(t, markerIdx, finalIdx)

	// The transcript handed to the reporter drops the terminal marker.
	for _, turn := range f.reporter.received() {
		assert.NotEqual(t, "end", turn.Feedback)
	}
}

func TestServiceTriggerPhrase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)
	openingID := f.store.lastQuestion().id

	result, err := f.svc.SubmitAnswer(ctx, f.req.UserID, testTriggerPhrase)
	require.NoError(t, err)
	assert.Equal(t, StatusEnd, result.Status)
	assert.Equal(t, testTriggerReply, result.Message)

	// The trigger bypasses the interviewer entirely.
	assert.Empty(t, f.factory.agent.invoked)

	f.svc.Close()

	assert.Equal(t, 0, f.svc.Registry().Len())

	marked := f.store.question(openingID)
	require.NotNil(t, marked.feedback)
	assert.Equal(t, testTriggerPhrase, *marked.answer)
	assert.Equal(t, "end", *marked.feedback)

	_, ok := f.store.finalFeedbackFor(started.InterviewID)
	assert.True(t, ok)

	// No further turns are accepted after termination.
	_, err = f.svc.SubmitAnswer(ctx, f.req.UserID, "one more")
	var notFound *ErrSessionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestServiceDetectorErrorContinues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)

	f.detector.err = errors.New("verdict model down")
	result, err := f.svc.SubmitAnswer(ctx, f.req.UserID, "an answer")
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, result.Status)
	assert.Equal(t, 1, f.svc.Registry().Len())
}

func TestServiceFinalizeIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)
	sess, _ := f.svc.Registry().Get(f.req.UserID)
	questionID := sess.QuestionInUse()

	require.NoError(t, f.svc.finalize(ctx, sess, "final answer", questionID))

	err = f.svc.finalize(ctx, sess, "final answer", questionID)
	var dup *ErrDuplicateFinalize
	require.ErrorAs(t, err, &dup)

	// Exactly one terminal sequence reached the store.
	ops := f.store.opLog()
	assert.Equal(t, 1, countOf(ops, "update_feedback"))
	assert.Equal(t, 1, countOf(ops, "update_final_feedback"))
}

func TestServiceSubmitAudioAnswer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)

	t.Run("transcription becomes the answer", func(t *testing.T) {
		result, err := f.svc.SubmitAudioAnswer(ctx, f.req.UserID, strings.NewReader("RIFF"), "answer.wav")
		require.NoError(t, err)
		assert.Equal(t, StatusContinue, result.Status)
		assert.Equal(t, "I led the migration to the new ledger.", result.Transcription)
		assert.Equal(t, "answer.wav", f.transcr.filename)

		assert.Equal(t, []string{"I led the migration to the new ledger."}, f.factory.agent.invoked)
	})

	t.Run("transcriber failure leaves the turn unprocessed", func(t *testing.T) {
		before := f.store.opLog()
		f.transcr.err = errors.New("whisper unreachable")

		_, err := f.svc.SubmitAudioAnswer(ctx, f.req.UserID, strings.NewReader("RIFF"), "answer.wav")
		var collab *ErrCollaborator
		require.ErrorAs(t, err, &collab)
		assert.Equal(t, before, f.store.opLog())
	})
}

func TestServiceConcurrentSubmitsSerialized(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.svc.SubmitAnswer(ctx, f.req.UserID, fmt.Sprintf("answer %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Both turns landed: opening plus one new question per turn, and the
	// pointer reflects the turn that ran second, never a lost update.
	assert.Equal(t, 3, f.store.questionCount())
	sess, ok := f.svc.Registry().Get(f.req.UserID)
	require.True(t, ok)
	assert.Equal(t, f.store.lastQuestion().id, sess.QuestionInUse())
}

func indexOf(ops []string, op string) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}

func countOf(ops []string, op string) int {
	n := 0
	for _, o := range ops {
		if o == op {
			n++
		}
	}
	return n
}
