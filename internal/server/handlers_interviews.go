package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-simulator/internal/agent"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/interview"
	"github.com/jonathan/interview-simulator/internal/server/middleware"
)

// maxAudioUpload bounds the size of an uploaded voice answer
const maxAudioUpload = 25 << 20

// InterviewService is the interview lifecycle surface the handlers need
type InterviewService interface {
	Start(ctx context.Context, req interview.StartRequest) (interview.StartResult, error)
	SubmitAnswer(ctx context.Context, userID uuid.UUID, answer string) (interview.TurnResult, error)
	SubmitAudioAnswer(ctx context.Context, userID uuid.UUID, audio io.Reader, filename string) (interview.TurnResult, error)
	Close()
}

// InterviewReader is the read-side store surface for completed and
// in-progress interviews
type InterviewReader interface {
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	ListQuestions(ctx context.Context, interviewID uuid.UUID) ([]db.Question, error)
}

// StartInterviewRequest is the body for POST /interviews
type StartInterviewRequest struct {
	ResumeID    uuid.UUID `json:"resume_id" validate:"required"`
	CorporateID uuid.UUID `json:"corporate_id" validate:"required"`
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	Style       string    `json:"style" validate:"required,oneof=standard gentle pressure"`
	Difficulty  int       `json:"difficulty" validate:"required,min=1,max=3"`
	Mode        string    `json:"mode,omitempty" validate:"omitempty,oneof=text audio"`
}

// AnswerRequest is the body for POST /interviews/answer
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// handleStartInterview begins an interview for the authenticated user
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.interviews.Start(r.Context(), interview.StartRequest{
		UserID:      userID,
		ResumeID:    req.ResumeID,
		CorporateID: req.CorporateID,
		JobID:       req.JobID,
		Style:       req.Style,
		Difficulty:  req.Difficulty,
		Mode:        agent.Mode(req.Mode),
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

// handleSubmitAnswer processes one text answer for the user's active interview
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.interviews.SubmitAnswer(r.Context(), userID, req.Answer)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitAudioAnswer processes one voice answer uploaded as multipart
// form data under the "audio" field
func (s *Server) handleSubmitAudioAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, header, err := s.audioUpload(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	result, err := s.interviews.SubmitAudioAnswer(r.Context(), userID, file, header.Filename)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetInterview returns one interview owned by the authenticated user
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	interviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid interview ID format")
		return
	}

	record, err := s.reader.GetInterview(r.Context(), interviewID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if record == nil || record.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Interview not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleListInterviewQuestions returns an interview's questions in the
// order they were asked
func (s *Server) handleListInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	interviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid interview ID format")
		return
	}

	record, err := s.reader.GetInterview(r.Context(), interviewID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if record == nil || record.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Interview not found")
		return
	}

	records, err := s.reader.ListQuestions(r.Context(), interviewID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"interview_id": interviewID.String(),
		"questions":    records,
		"count":        len(records),
	})
}

// audioUpload extracts the "audio" file from a multipart request
func (s *Server) audioUpload(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart upload: %w", err)
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, nil, fmt.Errorf("audio file field is required")
	}
	return file, header, nil
}
