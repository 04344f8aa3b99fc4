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

const goalColumns = `g.id, g.assignment_id, g.mentor_id, g.student_id, g.title, g.description,
	to_char(g.target_date, 'YYYY-MM-DD') AS target_date, g.status, g.priority, g.created_at, g.updated_at`

const goalDetailSelect = `SELECT ` + goalColumns + `, s.name AS student_name, m.name AS mentor_name
FROM goals g
LEFT JOIN students s ON s.id = g.student_id
LEFT JOIN mentors m ON m.id = g.mentor_id`

// GoalRepository stores student goals.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository constructs a goal repository.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a goal.
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	const query = `INSERT INTO goals (id, assignment_id, mentor_id, student_id, title, description, target_date, status, priority, created_at, updated_at)
VALUES (:id, :assignment_id, :mentor_id, :student_id, :title, :description, :target_date, :status, :priority, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// FindByID returns a goal by id.
func (r *GoalRepository) FindByID(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals g WHERE g.id = $1`
	var goal models.Goal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return &goal, nil
}

// ListByStudent returns all goals of a student with mentor names.
func (r *GoalRepository) ListByStudent(ctx context.Context, studentID string) ([]models.GoalDetail, error) {
	query := goalDetailSelect + ` WHERE g.student_id = $1 ORDER BY g.target_date ASC`
	return r.selectDetails(ctx, "list student goals", query, studentID)
}

// ListByStudentForMentor returns the goals a mentor set for a student.
func (r *GoalRepository) ListByStudentForMentor(ctx context.Context, studentID, mentorID string) ([]models.GoalDetail, error) {
	query := goalDetailSelect + ` WHERE g.student_id = $1 AND g.mentor_id = $2 ORDER BY g.target_date ASC`
	return r.selectDetails(ctx, "list student goals for mentor", query, studentID, mentorID)
}

// ListByMentor returns a mentor's goals, optionally only open and in-progress ones.
func (r *GoalRepository) ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.GoalDetail, error) {
	query := goalDetailSelect + ` WHERE g.mentor_id = $1`
	if activeOnly {
		query += ` AND g.status IN ('open', 'in-progress')`
	}
	query += ` ORDER BY g.target_date ASC`
	return r.selectDetails(ctx, "list mentor goals", query, mentorID)
}

// Update applies a partial change to a goal owned by the mentor. updated_at only
// moves when a stored value actually changes.
func (r *GoalRepository) Update(ctx context.Context, id, mentorID string, patch models.GoalPatch) (*models.Goal, error) {
	query := `UPDATE goals g SET
	title = COALESCE($3, title),
	description = COALESCE($4, description),
	target_date = COALESCE($5::date, target_date),
	status = COALESCE($6, status),
	priority = COALESCE($7, priority),
	updated_at = CASE
		WHEN (COALESCE($3, title), COALESCE($4, description), COALESCE($5::date, target_date), COALESCE($6, status), COALESCE($7, priority))
			IS DISTINCT FROM (title, description, target_date, status, priority)
		THEN $8 ELSE updated_at END
WHERE g.id = $1 AND g.mentor_id = $2
RETURNING ` + goalColumns
	var goal models.Goal
	err := r.db.GetContext(ctx, &goal, query, id, mentorID, patch.Title, patch.Description, patch.TargetDate, patch.Status, patch.Priority, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return &goal, nil
}

// MarkStatus lets a student change the status of their own goal.
func (r *GoalRepository) MarkStatus(ctx context.Context, id, studentID string, status models.GoalStatus) (*models.Goal, error) {
	query := `UPDATE goals g SET
	status = $3,
	updated_at = CASE WHEN status IS DISTINCT FROM $3 THEN $4 ELSE updated_at END
WHERE g.id = $1 AND g.student_id = $2
RETURNING ` + goalColumns
	var goal models.Goal
	if err := r.db.GetContext(ctx, &goal, query, id, studentID, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("mark goal: %w", err)
	}
	return &goal, nil
}

// Delete removes a goal owned by the mentor.
func (r *GoalRepository) Delete(ctx context.Context, id, mentorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND mentor_id = $2`, id, mentorID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}

func (r *GoalRepository) selectDetails(ctx context.Context, op, query string, args ...interface{}) ([]models.GoalDetail, error) {
	var goals []models.GoalDetail
	if err := r.db.SelectContext(ctx, &goals, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return goals, nil
}
