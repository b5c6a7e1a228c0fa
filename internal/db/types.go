package db

import (
	"time"

	"github.com/google/uuid"
)

// Resume is a stored candidate resume
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CorporateProfile is stored information about an employer
type CorporateProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// JobProfile is a stored role description plus its recruitment notice
type JobProfile struct {
	ID          uuid.UUID `json:"id"`
	CorporateID uuid.UUID `json:"corporate_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Recruitment string    `json:"recruitment"`
	CreatedAt   time.Time `json:"created_at"`
}

// Interview is one interview run. Immutable after creation except for
// the final feedback written when the interview ends.
type Interview struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	ResumeID      uuid.UUID `json:"resume_id"`
	CorporateID   uuid.UUID `json:"corporate_id"`
	JobID         uuid.UUID `json:"job_id"`
	Style         string    `json:"interview_style"`
	Difficulty    int       `json:"difficulty_level"`
	FinalFeedback *string   `json:"final_feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Question is one question asked during an interview, together with the
// answer and feedback recorded for it. Answer columns are null until the
// candidate responds. Questions are ordered by creation time within an
// interview.
type Question struct {
	ID              uuid.UUID `json:"id"`
	InterviewID     uuid.UUID `json:"interview_id"`
	Text            string    `json:"text"`
	Answer          *string   `json:"answer,omitempty"`
	Feedback        *string   `json:"feedback,omitempty"`
	ExemplaryAnswer *string   `json:"exemplary_answer,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// User is a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
