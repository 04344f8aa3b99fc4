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

const interventionColumns = `i.id, i.assignment_id, i.mentor_id, i.student_id, i.type, i.description,
	to_char(i.action_date, 'YYYY-MM-DD') AS action_date, i.status, i.outcome, i.created_at`

// InterventionRepository stores interventions.
type InterventionRepository struct {
	db *sqlx.DB
}

// NewInterventionRepository constructs an intervention repository.
func NewInterventionRepository(db *sqlx.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

// Create inserts an intervention.
func (r *InterventionRepository) Create(ctx context.Context, intervention *models.Intervention) error {
	if intervention.ID == "" {
		intervention.ID = uuid.NewString()
	}
	intervention.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO interventions (id, assignment_id, mentor_id, student_id, type, description, action_date, status, outcome, created_at)
VALUES (:id, :assignment_id, :mentor_id, :student_id, :type, :description, :action_date, :status, :outcome, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, intervention); err != nil {
		return fmt.Errorf("insert intervention: %w", err)
	}
	return nil
}

// ListByStudentForMentor returns a mentor's interventions for a student.
func (r *InterventionRepository) ListByStudentForMentor(ctx context.Context, studentID, mentorID string) ([]models.InterventionDetail, error) {
	query := `SELECT ` + interventionColumns + `, s.name AS student_name
FROM interventions i LEFT JOIN students s ON s.id = i.student_id
WHERE i.student_id = $1 AND i.mentor_id = $2
ORDER BY i.action_date DESC`
	var items []models.InterventionDetail
	if err := r.db.SelectContext(ctx, &items, query, studentID, mentorID); err != nil {
		return nil, fmt.Errorf("list student interventions: %w", err)
	}
	return items, nil
}

// ListActiveByMentor returns the mentor's pending and ongoing interventions.
func (r *InterventionRepository) ListActiveByMentor(ctx context.Context, mentorID string) ([]models.InterventionDetail, error) {
	query := `SELECT ` + interventionColumns + `, s.name AS student_name
FROM interventions i LEFT JOIN students s ON s.id = i.student_id
WHERE i.mentor_id = $1 AND i.status IN ('pending', 'ongoing')
ORDER BY i.action_date ASC`
	var items []models.InterventionDetail
	if err := r.db.SelectContext(ctx, &items, query, mentorID); err != nil {
		return nil, fmt.Errorf("list active interventions: %w", err)
	}
	return items, nil
}

// UpdateStatus records progress on an intervention owned by the mentor.
func (r *InterventionRepository) UpdateStatus(ctx context.Context, id, mentorID string, status models.InterventionStatus, outcome *string) (*models.Intervention, error) {
	query := `UPDATE interventions i SET status = $3, outcome = COALESCE($4, outcome)
WHERE i.id = $1 AND i.mentor_id = $2
RETURNING ` + interventionColumns
	var item models.Intervention
	if err := r.db.GetContext(ctx, &item, query, id, mentorID, status, outcome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update intervention: %w", err)
	}
	return &item, nil
}
