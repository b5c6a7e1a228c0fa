package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/ingestion"
	"github.com/jonathan/interview-simulator/internal/server/middleware"
)

// ProfileRepo is the store surface for profile ingestion and retrieval
type ProfileRepo interface {
	CreateResume(ctx context.Context, userID uuid.UUID, title, content string) (uuid.UUID, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	CreateCorporateProfile(ctx context.Context, name, content string) (uuid.UUID, error)
	GetCorporateProfile(ctx context.Context, id uuid.UUID) (*db.CorporateProfile, error)
	CreateJobProfile(ctx context.Context, corporateID uuid.UUID, title, content, recruitment string) (uuid.UUID, error)
	GetJobProfile(ctx context.Context, id uuid.UUID) (*db.JobProfile, error)
}

// CreateResumeRequest is the body for POST /resumes. Content may be plain
// text or HTML; HTML is reduced to text before storage.
type CreateResumeRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}

// CreateCorporateProfileRequest is the body for POST /corporate-profiles
type CreateCorporateProfileRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}

// CreateJobProfileRequest is the body for POST /job-profiles
type CreateJobProfileRequest struct {
	CorporateID uuid.UUID `json:"corporate_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Content     string    `json:"content" validate:"required"`
	Recruitment string    `json:"recruitment"`
}

// handleCreateResume stores a resume for the authenticated user
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	content, err := ingestion.ExtractText(req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unreadable content: "+err.Error())
		return
	}

	id, err := s.profiles.CreateResume(r.Context(), userID, req.Title, content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleGetResume returns a resume owned by the authenticated user
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	resume, err := s.profiles.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if resume == nil || resume.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleCreateCorporateProfile stores an employer profile
func (s *Server) handleCreateCorporateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateCorporateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	content, err := ingestion.ExtractText(req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unreadable content: "+err.Error())
		return
	}

	id, err := s.profiles.CreateCorporateProfile(r.Context(), req.Name, content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleGetCorporateProfile returns an employer profile
func (s *Server) handleGetCorporateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID format")
		return
	}

	profile, err := s.profiles.GetCorporateProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Corporate profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleCreateJobProfile stores a role description with its recruitment
// notice
func (s *Server) handleCreateJobProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateJobProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	content, err := ingestion.ExtractText(req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unreadable content: "+err.Error())
		return
	}

	id, err := s.profiles.CreateJobProfile(r.Context(), req.CorporateID, req.Title,
		content, ingestion.CleanText(req.Recruitment))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleGetJobProfile returns a job profile
func (s *Server) handleGetJobProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID format")
		return
	}

	profile, err := s.profiles.GetJobProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Job profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
