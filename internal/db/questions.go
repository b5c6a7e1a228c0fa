package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveQuestion stores a generated question under an interview and returns
// its ID. Question text is stored verbatim; readers get back exactly what
// the generator produced.
func (db *DB) SaveQuestion(ctx context.Context, text string, interviewID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO questions (interview_id, text)
		 VALUES ($1, $2)
		 RETURNING id`,
		interviewID, text,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save question: %w", err)
	}
	return id, nil
}

// UpdateFeedback records the candidate's answer plus the generated feedback
// and exemplary answer against a question
func (db *DB) UpdateFeedback(ctx context.Context, answer, feedback, exemplaryAnswer string, questionID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE questions SET answer = $1, feedback = $2, exemplary_answer = $3 WHERE id = $4`,
		answer, feedback, exemplaryAnswer, questionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("question not found: %s", questionID)
	}
	return nil
}

// GetQuestion retrieves a question by ID. Returns (nil, nil) when absent.
func (db *DB) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	err := db.pool.QueryRow(ctx,
		`SELECT id, interview_id, text, answer, feedback, exemplary_answer, created_at
		 FROM questions WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.InterviewID, &q.Text, &q.Answer, &q.Feedback, &q.ExemplaryAnswer, &q.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

// ListQuestions retrieves all questions for an interview in creation order
func (db *DB) ListQuestions(ctx context.Context, interviewID uuid.UUID) ([]Question, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, interview_id, text, answer, feedback, exemplary_answer, created_at
		 FROM questions WHERE interview_id = $1 ORDER BY created_at ASC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.InterviewID, &q.Text, &q.Answer, &q.Feedback, &q.ExemplaryAnswer, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
