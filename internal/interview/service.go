package interview

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-simulator/internal/agent"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/logging"
	"github.com/jonathan/interview-simulator/internal/questions"
)

// ProfileStore fetches the stored text profiles an interview is built from.
// A missing record is reported as (nil, nil), matching the db package.
type ProfileStore interface {
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetCorporateProfile(ctx context.Context, id uuid.UUID) (*db.CorporateProfile, error)
	GetJobProfile(ctx context.Context, id uuid.UUID) (*db.JobProfile, error)
}

// InterviewStore persists interviews, questions, and feedback
type InterviewStore interface {
	SaveInterview(ctx context.Context, params db.InterviewParams) (uuid.UUID, error)
	SaveQuestion(ctx context.Context, text string, interviewID uuid.UUID) (uuid.UUID, error)
	RecordTurn(ctx context.Context, answer, feedback, exemplaryAnswer string, prevQuestionID uuid.UUID, newQuestionText string, interviewID uuid.UUID) (uuid.UUID, error)
	UpdateFeedback(ctx context.Context, answer, feedback, exemplaryAnswer string, questionID uuid.UUID) error
	UpdateFinalFeedback(ctx context.Context, interviewID uuid.UUID, feedback string) error
	ListQuestions(ctx context.Context, interviewID uuid.UUID) ([]db.Question, error)
}

// AgentFactory constructs interviewer agents
type AgentFactory interface {
	New(cfg agent.Config) (agent.Agent, error)
}

// QuestionGenerator produces the prepared question set for an interview
type QuestionGenerator interface {
	Generate(ctx context.Context, m questions.Materials, difficulty int) ([]string, error)
}

// FinalReporter writes the aggregate end-of-interview evaluation
type FinalReporter interface {
	Generate(ctx context.Context, turns []questions.Turn) (string, error)
}

// Transcriber converts a voice answer to text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Status reports whether the interview continues after a turn
type Status string

// Turn statuses
const (
	StatusContinue Status = "continue"
	StatusEnd      Status = "end"
)

// StartRequest carries the parameters for starting an interview
type StartRequest struct {
	UserID      uuid.UUID
	ResumeID    uuid.UUID
	CorporateID uuid.UUID
	JobID       uuid.UUID
	Style       string
	Difficulty  int
	Mode        agent.Mode
}

// StartResult is returned from Start
type StartResult struct {
	SessionID   uuid.UUID `json:"session_id"`
	InterviewID uuid.UUID `json:"interview_id"`
	Message     string    `json:"message"`
}

// TurnResult is returned from SubmitAnswer
type TurnResult struct {
	Message       string `json:"message"`
	Status        Status `json:"status"`
	Transcription string `json:"transcription,omitempty"`
}

// terminal marker written on the last question's feedback columns
const endMarker = "end"

// finalizeTimeout bounds the background finalization, which runs detached
// from any request context.
const finalizeTimeout = 2 * time.Minute

// Options wires a Service
type Options struct {
	Profiles    ProfileStore
	Store       InterviewStore
	Factory     AgentFactory
	Generator   QuestionGenerator
	Reporter    FinalReporter
	Transcriber Transcriber
	Detector    Detector
	Logger      *zap.Logger

	// TriggerPhrase force-ends an interview when submitted verbatim as an
	// answer; TriggerReply is the fixed response returned in that case.
	TriggerPhrase string
	TriggerReply  string
}

// Service is the interview lifecycle manager. All session mutation happens
// under the registry's per-user lock, so turns for one user are strictly
// serialized while turns for different users proceed independently.
type Service struct {
	registry    *Registry
	profiles    ProfileStore
	store       InterviewStore
	factory     AgentFactory
	generator   QuestionGenerator
	reporter    FinalReporter
	transcriber Transcriber
	detector    Detector
	logger      *zap.Logger

	triggerPhrase string
	triggerReply  string

	finalizing sync.WaitGroup
}

// NewService creates the interview lifecycle manager
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:      NewRegistry(),
		profiles:      opts.Profiles,
		store:         opts.Store,
		factory:       opts.Factory,
		generator:     opts.Generator,
		reporter:      opts.Reporter,
		transcriber:   opts.Transcriber,
		detector:      opts.Detector,
		logger:        logger,
		triggerPhrase: opts.TriggerPhrase,
		triggerReply:  opts.TriggerReply,
	}
}

// Registry exposes the session registry for read-side inspection
func (s *Service) Registry() *Registry {
	return s.registry
}

// Close waits for in-flight background finalizations to complete
func (s *Service) Close() {
	s.finalizing.Wait()
}

// Start begins a new interview: fetches the profiles, generates the
// question set, builds the agent, obtains the opening message, persists
// the interview and first question, and registers the session. Any prior
// session for the user is overwritten.
func (s *Service) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	style, err := agent.ParseStyle(req.Style)
	if err != nil {
		return StartResult{}, err
	}

	unlock := s.registry.Lock(req.UserID)
	defer unlock()

	materials, err := s.fetchMaterials(ctx, req)
	if err != nil {
		return StartResult{}, err
	}

	questionSet, err := s.generator.Generate(ctx, materials, req.Difficulty)
	if err != nil {
		return StartResult{}, &ErrCollaborator{Op: "question generation", Err: err}
	}

	mode := req.Mode
	if mode == "" {
		mode = agent.ModeText
	}
	ag, err := s.factory.New(agent.Config{
		Style:       style,
		Difficulty:  req.Difficulty,
		Mode:        mode,
		Questions:   questionSet,
		Resume:      materials.Resume,
		Corporate:   materials.Corporate,
		Recruitment: materials.Recruitment,
		Job:         materials.Job,
	})
	if err != nil {
		return StartResult{}, err
	}

	opening, err := ag.Open(ctx)
	if err != nil {
		return StartResult{}, &ErrCollaborator{Op: "interview opening", Err: err}
	}

	// Persist only after every collaborator call has succeeded; a failed
	// start leaves no interview record and no session.
	interviewID, err := s.store.SaveInterview(ctx, db.InterviewParams{
		UserID:      req.UserID,
		ResumeID:    req.ResumeID,
		CorporateID: req.CorporateID,
		JobID:       req.JobID,
		Style:       string(style),
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		return StartResult{}, &ErrCollaborator{Op: "interview save", Err: err}
	}

	questionID, err := s.store.SaveQuestion(ctx, opening, interviewID)
	if err != nil {
		return StartResult{}, &ErrCollaborator{Op: "question save", Err: err}
	}

	s.registry.Create(NewSession(req.UserID, interviewID, questionID, ag))

	s.logger.Info("interview started",
		zap.String("user_id", req.UserID.String()),
		zap.String("interview_id", interviewID.String()),
		zap.String("style", string(style)),
		zap.Int("difficulty", req.Difficulty))

	return StartResult{SessionID: req.UserID, InterviewID: interviewID, Message: opening}, nil
}

// SubmitAnswer processes one candidate answer for the user's active
// session and returns the interviewer's next message.
func (s *Service) SubmitAnswer(ctx context.Context, userID uuid.UUID, answer string) (TurnResult, error) {
	unlock := s.registry.Lock(userID)
	defer unlock()

	return s.submitLocked(ctx, userID, answer)
}

// SubmitAudioAnswer transcribes a voice answer and processes it as a turn.
// The transcription is echoed back in the result.
func (s *Service) SubmitAudioAnswer(ctx context.Context, userID uuid.UUID, audio io.Reader, filename string) (TurnResult, error) {
	unlock := s.registry.Lock(userID)
	defer unlock()

	// Transcribe under the lock: the session must not accept another
	// operation while this turn's collaborator call is outstanding.
	answer, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return TurnResult{}, &ErrCollaborator{Op: "transcription", Err: err}
	}

	result, err := s.submitLocked(ctx, userID, answer)
	if err != nil {
		return TurnResult{}, err
	}
	result.Transcription = answer
	return result, nil
}

// submitLocked runs one turn. Caller holds the per-user lock.
func (s *Service) submitLocked(ctx context.Context, userID uuid.UUID, answer string) (TurnResult, error) {
	sess, ok := s.registry.Get(userID)
	if !ok || sess.state != StateAwaitingAnswer {
		return TurnResult{}, &ErrSessionNotFound{UserID: userID}
	}

	// Forced termination escape hatch: a configured literal answer ends
	// the interview immediately with a fixed reply, bypassing feedback
	// generation.
	if s.triggerPhrase != "" && answer == s.triggerPhrase {
		sess.state = StateEnded
		s.dispatchFinalize(sess, answer, sess.questionInUse)
		s.logger.Info("interview force-terminated by trigger phrase",
			zap.String("user_id", userID.String()))
		return TurnResult{Message: s.triggerReply, Status: StatusEnd}, nil
	}

	sess.state = StateEvaluating
	reply, err := sess.agent.Invoke(ctx, agent.Turn{Answer: answer})
	if err != nil {
		sess.state = StateAwaitingAnswer
		return TurnResult{}, &ErrCollaborator{Op: "interview turn", Err: err}
	}

	// Feedback lands on the question that was answered; the interviewer's
	// next message becomes the new question. One transaction, so a failure
	// here leaves the store exactly as it was.
	newQuestionID, err := s.store.RecordTurn(ctx, answer, reply.Feedback, reply.ExemplaryAnswer,
		sess.questionInUse, reply.Message, sess.InterviewID)
	if err != nil {
		sess.state = StateAwaitingAnswer
		return TurnResult{}, &ErrCollaborator{Op: "turn persistence", Err: err}
	}

	s.registry.UpdateQuestion(userID, newQuestionID)
	sess.state = StateAwaitingAnswer

	end, err := s.detector.ShouldEnd(ctx, reply.Message)
	if err != nil {
		// Misclassification only costs an extra turn; never fail the turn
		// over it.
		s.logger.Warn("termination detection failed, continuing interview",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		end = false
	}

	if end {
		sess.state = StateEnded
		s.dispatchFinalize(sess, answer, newQuestionID)
		return TurnResult{Message: reply.Message, Status: StatusEnd}, nil
	}

	s.logger.Debug("interview turn completed",
		zap.String("user_id", userID.String()),
		zap.String("message", logging.Truncate(reply.Message, 120)))

	return TurnResult{Message: reply.Message, Status: StatusContinue}, nil
}

// fetchMaterials loads the three profiles concurrently
func (s *Service) fetchMaterials(ctx context.Context, req StartRequest) (questions.Materials, error) {
	var materials questions.Materials

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resume, err := s.profiles.GetResume(gCtx, req.ResumeID)
		if err != nil {
			return &ErrCollaborator{Op: "resume fetch", Err: err}
		}
		if resume == nil {
			return &ErrProfileNotFound{Kind: "resume", ID: req.ResumeID}
		}
		materials.Resume = resume.Content
		return nil
	})
	g.Go(func() error {
		corp, err := s.profiles.GetCorporateProfile(gCtx, req.CorporateID)
		if err != nil {
			return &ErrCollaborator{Op: "corporate fetch", Err: err}
		}
		if corp == nil {
			return &ErrProfileNotFound{Kind: "corporate", ID: req.CorporateID}
		}
		materials.Corporate = corp.Content
		return nil
	})
	g.Go(func() error {
		job, err := s.profiles.GetJobProfile(gCtx, req.JobID)
		if err != nil {
			return &ErrCollaborator{Op: "job fetch", Err: err}
		}
		if job == nil {
			return &ErrProfileNotFound{Kind: "job", ID: req.JobID}
		}
		materials.Job = job.Content
		materials.Recruitment = job.Recruitment
		return nil
	})

	if err := g.Wait(); err != nil {
		return questions.Materials{}, err
	}
	return materials, nil
}

// dispatchFinalize runs the terminal persistence sequence in a tracked
// background task while the response returns to the caller.
func (s *Service) dispatchFinalize(sess *Session, lastAnswer string, lastQuestionID uuid.UUID) {
	s.finalizing.Add(1)
	go func() {
		defer s.finalizing.Done()

		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		defer cancel()

		if err := s.finalize(ctx, sess, lastAnswer, lastQuestionID); err != nil {
			if _, dup := err.(*ErrDuplicateFinalize); dup {
				s.logger.Debug("duplicate finalize ignored",
					zap.String("interview_id", sess.InterviewID.String()))
				return
			}
			s.logger.Error("interview finalization failed",
				zap.String("interview_id", sess.InterviewID.String()),
				zap.Error(err))
		}
	}()
}

// finalize runs the terminal persistence sequence exactly once per
// session: terminal feedback marker on the last question, then the
// aggregate final feedback, then session removal. The ordering is a
// contract: a reader must never observe final feedback without the
// terminal marker that precedes it.
func (s *Service) finalize(ctx context.Context, sess *Session, lastAnswer string, lastQuestionID uuid.UUID) error {
	if !sess.beginFinalize() {
		return &ErrDuplicateFinalize{InterviewID: sess.InterviewID}
	}

	if err := s.store.UpdateFeedback(ctx, lastAnswer, endMarker, endMarker, lastQuestionID); err != nil {
		return &ErrCollaborator{Op: "terminal feedback write", Err: err}
	}

	feedback, err := s.buildFinalFeedback(ctx, sess.InterviewID)
	if err != nil {
		return err
	}
	if err := s.store.UpdateFinalFeedback(ctx, sess.InterviewID, feedback); err != nil {
		return &ErrCollaborator{Op: "final feedback write", Err: err}
	}

	s.registry.Remove(sess.UserID)

	s.logger.Info("interview finalized",
		zap.String("user_id", sess.UserID.String()),
		zap.String("interview_id", sess.InterviewID.String()))
	return nil
}

func (s *Service) buildFinalFeedback(ctx context.Context, interviewID uuid.UUID) (string, error) {
	records, err := s.store.ListQuestions(ctx, interviewID)
	if err != nil {
		return "", &ErrCollaborator{Op: "transcript fetch", Err: err}
	}

	turns := make([]questions.Turn, 0, len(records))
	for _, q := range records {
		turn := questions.Turn{Question: q.Text}
		if q.Answer != nil {
			turn.Answer = *q.Answer
		}
		if q.Feedback != nil && *q.Feedback != endMarker {
			turn.Feedback = *q.Feedback
		}
		turns = append(turns, turn)
	}

	feedback, err := s.reporter.Generate(ctx, turns)
	if err != nil {
		return "", &ErrCollaborator{Op: "final feedback generation", Err: err}
	}
	return feedback, nil
}
