package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateResume stores a resume and returns its ID
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title, content string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, title, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID. Returns (nil, nil) when absent.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// CreateCorporateProfile stores an employer profile and returns its ID
func (db *DB) CreateCorporateProfile(ctx context.Context, name, content string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO corporate_profiles (name, content)
		 VALUES ($1, $2)
		 RETURNING id`,
		name, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create corporate profile: %w", err)
	}
	return id, nil
}

// GetCorporateProfile retrieves an employer profile by ID. Returns (nil, nil) when absent.
func (db *DB) GetCorporateProfile(ctx context.Context, id uuid.UUID) (*CorporateProfile, error) {
	var p CorporateProfile
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, content, created_at FROM corporate_profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Content, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get corporate profile: %w", err)
	}
	return &p, nil
}

// CreateJobProfile stores a role description with its recruitment notice
func (db *DB) CreateJobProfile(ctx context.Context, corporateID uuid.UUID, title, content, recruitment string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_profiles (corporate_id, title, content, recruitment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		corporateID, title, content, recruitment,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job profile: %w", err)
	}
	return id, nil
}

// GetJobProfile retrieves a job profile by ID. Returns (nil, nil) when absent.
func (db *DB) GetJobProfile(ctx context.Context, id uuid.UUID) (*JobProfile, error) {
	var p JobProfile
	err := db.pool.QueryRow(ctx,
		`SELECT id, corporate_id, title, content, recruitment, created_at
		 FROM job_profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.CorporateID, &p.Title, &p.Content, &p.Recruitment, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job profile: %w", err)
	}
	return &p, nil
}
