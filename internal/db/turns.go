package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordTurn persists one interview turn atomically: the answer and
// feedback for the question just answered, then the next question. Both
// writes land in one transaction so a failed turn leaves no partial state,
// and a reader never observes a new question without the feedback that
// preceded it.
func (db *DB) RecordTurn(ctx context.Context, answer, feedback, exemplaryAnswer string, prevQuestionID uuid.UUID, newQuestionText string, interviewID uuid.UUID) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin turn transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx,
		`UPDATE questions SET answer = $1, feedback = $2, exemplary_answer = $3 WHERE id = $4`,
		answer, feedback, exemplaryAnswer, prevQuestionID,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return uuid.Nil, fmt.Errorf("question not found: %s", prevQuestionID)
	}

	var newID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO questions (interview_id, text)
		 VALUES ($1, $2)
		 RETURNING id`,
		interviewID, newQuestionText,
	).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save question: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit turn: %w", err)
	}
	return newID, nil
}
