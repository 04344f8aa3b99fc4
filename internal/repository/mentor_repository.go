package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

const mentorColumns = `m.id, m.user_id, m.name, m.email, m.department, m.availability, m.created_at`

// MentorRepository manages mentor profiles.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a mentor repository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// Create inserts a mentor profile.
func (r *MentorRepository) Create(ctx context.Context, exec sqlx.ExtContext, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	mentor.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO mentors (id, user_id, name, email, department, availability, created_at)
VALUES (:id, :user_id, :name, :email, :department, :availability, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, mentor); err != nil {
		return fmt.Errorf("insert mentor: %w", err)
	}
	return nil
}

// FindByID returns a mentor by id.
func (r *MentorRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors m WHERE m.id = $1`
	var mentor models.Mentor
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &mentor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor: %w", err)
	}
	return &mentor, nil
}

// List returns every mentor ordered by name.
func (r *MentorRepository) List(ctx context.Context) ([]models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors m ORDER BY m.name ASC`
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// Profile returns the mentor with their active mentee count.
func (r *MentorRepository) Profile(ctx context.Context, id string) (*models.MentorProfile, error) {
	query := `SELECT ` + mentorColumns + `,
	(SELECT COUNT(*) FROM assignments a WHERE a.mentor_id = m.id AND a.status = 'active') AS mentee_count
FROM mentors m WHERE m.id = $1`
	var profile models.MentorProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("load mentor profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile changes the editable mentor fields. Nil optional fields keep their value.
func (r *MentorRepository) UpdateProfile(ctx context.Context, id, name string, department, availability *string) error {
	const query = `UPDATE mentors SET name = $2, department = COALESCE($3, department), availability = COALESCE($4, availability) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name, department, availability)
	if err != nil {
		return fmt.Errorf("update mentor profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update mentor rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}
