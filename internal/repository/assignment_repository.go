package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

const assignmentColumns = `a.id, a.mentor_id, a.student_id, to_char(a.start_date, 'YYYY-MM-DD') AS start_date,
	to_char(a.end_date, 'YYYY-MM-DD') AS end_date, a.status, a.created_at`

var assignmentDetailColumns = []string{
	"a.id", "a.mentor_id", "a.student_id",
	"to_char(a.start_date, 'YYYY-MM-DD') AS start_date",
	"to_char(a.end_date, 'YYYY-MM-DD') AS end_date",
	"a.status", "a.created_at",
	"m.name AS mentor_name", "s.name AS student_name", "s.roll_number",
}

// AssignmentRepository manages mentor-student assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment. A second active assignment for the same student
// fails on assignments_one_active_per_student.
func (r *AssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentActive
	}
	assignment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO assignments (id, mentor_id, student_id, start_date, end_date, status, created_at)
VALUES (:id, :mentor_id, :student_id, :start_date, :end_date, :status, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.id = $1`
	var assignment models.Assignment
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &assignment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// FindActiveByStudent returns the student's active assignment.
func (r *AssignmentRepository) FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.student_id = $1 AND a.status = 'active' LIMIT 1`
	var assignment models.Assignment
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &assignment, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	return &assignment, nil
}

// List returns assignments with participant names, newest first.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	page, pageSize := models.Normalize(filter.Page, filter.PageSize)

	conds := sq.Eq{}
	if filter.Status != "" {
		conds["a.status"] = string(filter.Status)
	}
	if filter.MentorID != "" {
		conds["a.mentor_id"] = filter.MentorID
	}

	listQuery := psql.Select(assignmentDetailColumns...).
		From("assignments a").
		LeftJoin("mentors m ON m.id = a.mentor_id").
		LeftJoin("students s ON s.id = a.student_id")
	countQuery := psql.Select("COUNT(*)").From("assignments a")
	if len(conds) > 0 {
		listQuery = listQuery.Where(conds)
		countQuery = countQuery.Where(conds)
	}
	listQuery = listQuery.OrderBy("a.created_at DESC").Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))

	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build assignment list query: %w", err)
	}
	var items []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	query, args, err = countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build assignment count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return items, total, nil
}

// UpdateStatus sets status and, when given, end date.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, endDate *string) error {
	const query = `UPDATE assignments SET status = $2, end_date = COALESCE($3::date, end_date) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, endDate)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}
