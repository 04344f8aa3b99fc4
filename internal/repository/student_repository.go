package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var studentColumns = []string{
	"s.id", "s.user_id", "s.parent_id", "s.name", "s.roll_number", "s.email",
	"s.phone", "s.program", "s.year", "s.academic_status", "s.created_at",
}

var studentSelect = strings.Join(studentColumns, ", ")

// StudentRepository manages student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student profile.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.AcademicStatus == "" {
		student.AcademicStatus = "regular"
	}
	student.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO students (id, user_id, parent_id, name, roll_number, email, phone, program, year, academic_status, created_at)
VALUES (:id, :user_id, :parent_id, :name, :roll_number, :email, :phone, :program, :year, :academic_status, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// FindByID returns a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error) {
	query := `SELECT ` + studentSelect + ` FROM students s WHERE s.id = $1`
	var student models.Student
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// List returns students matching the filter together with the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	page, pageSize := models.Normalize(filter.Page, filter.PageSize)

	var conds sq.And
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		conds = append(conds, sq.Or{
			sq.Like{"LOWER(s.name)": like},
			sq.Like{"LOWER(s.roll_number)": like},
			sq.Like{"LOWER(s.email)": like},
		})
	}
	if filter.Program != "" {
		conds = append(conds, sq.Eq{"s.program": filter.Program})
	}
	if filter.Year != nil {
		conds = append(conds, sq.Eq{"s.year": *filter.Year})
	}

	listQuery := psql.Select(studentColumns...).From("students s")
	countQuery := psql.Select("COUNT(*)").From("students s")
	if len(conds) > 0 {
		listQuery = listQuery.Where(conds)
		countQuery = countQuery.Where(conds)
	}
	listQuery = listQuery.OrderBy("s.name ASC").Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))

	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build student list query: %w", err)
	}
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	query, args, err = countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build student count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListOverview returns every student with their active assignment and mentor, if any.
func (r *StudentRepository) ListOverview(ctx context.Context) ([]models.StudentOverview, error) {
	query := `SELECT ` + studentSelect + `, a.id AS assignment_id, a.mentor_id, m.name AS mentor_name
FROM students s
LEFT JOIN assignments a ON a.student_id = s.id AND a.status = 'active'
LEFT JOIN mentors m ON m.id = a.mentor_id
ORDER BY s.name ASC`
	var students []models.StudentOverview
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list student overview: %w", err)
	}
	return students, nil
}

// ListByParent returns the students linked to a parent.
func (r *StudentRepository) ListByParent(ctx context.Context, parentID string) ([]models.Student, error) {
	query := `SELECT ` + studentSelect + ` FROM students s WHERE s.parent_id = $1 ORDER BY s.name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, parentID); err != nil {
		return nil, fmt.Errorf("list students by parent: %w", err)
	}
	return students, nil
}

// ListMentees returns the students a mentor has been assigned, current assignments first.
func (r *StudentRepository) ListMentees(ctx context.Context, mentorID string) ([]models.Mentee, error) {
	query := `SELECT ` + studentSelect + `, a.id AS assignment_id, a.status AS assignment_status,
	to_char(a.start_date, 'YYYY-MM-DD') AS start_date, to_char(a.end_date, 'YYYY-MM-DD') AS end_date
FROM assignments a
JOIN students s ON s.id = a.student_id
WHERE a.mentor_id = $1
ORDER BY (a.status = 'active') DESC, s.name ASC`
	var mentees []models.Mentee
	if err := r.db.SelectContext(ctx, &mentees, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentees: %w", err)
	}
	return mentees, nil
}
