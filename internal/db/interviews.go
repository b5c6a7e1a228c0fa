package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InterviewParams holds the fields needed to create an interview record
type InterviewParams struct {
	UserID      uuid.UUID
	ResumeID    uuid.UUID
	CorporateID uuid.UUID
	JobID       uuid.UUID
	Style       string
	Difficulty  int
}

// SaveInterview creates a new interview record and returns its ID
func (db *DB) SaveInterview(ctx context.Context, params InterviewParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interviews (user_id, resume_id, corporate_id, job_id, interview_style, difficulty_level)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		params.UserID, params.ResumeID, params.CorporateID, params.JobID, params.Style, params.Difficulty,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save interview: %w", err)
	}
	return id, nil
}

// GetInterview retrieves an interview by ID. Returns (nil, nil) when absent.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	var iv Interview
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_id, corporate_id, job_id, interview_style, difficulty_level, final_feedback, created_at
		 FROM interviews WHERE id = $1`,
		id,
	).Scan(&iv.ID, &iv.UserID, &iv.ResumeID, &iv.CorporateID, &iv.JobID, &iv.Style, &iv.Difficulty, &iv.FinalFeedback, &iv.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &iv, nil
}

// UpdateFinalFeedback writes the aggregate end-of-interview feedback.
// The interview record is otherwise immutable after creation.
func (db *DB) UpdateFinalFeedback(ctx context.Context, interviewID uuid.UUID, feedback string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE interviews SET final_feedback = $1 WHERE id = $2`,
		feedback, interviewID,
	)
	if err != nil {
		return fmt.Errorf("failed to update final feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview not found: %s", interviewID)
	}
	return nil
}
