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

const meetingColumns = `mt.id, mt.assignment_id, mt.mentor_id, mt.student_id,
	to_char(mt.meeting_date, 'YYYY-MM-DD') AS meeting_date, to_char(mt.meeting_time, 'HH24:MI') AS meeting_time,
	mt.duration, mt.mode, mt.location, mt.status, mt.requested_by_user_id, mt.requested_by_role,
	mt.requested_by_name, mt.created_at`

const meetingDetailSelect = `SELECT ` + meetingColumns + `, s.name AS student_name, s.roll_number, m.name AS mentor_name
FROM meetings mt
LEFT JOIN students s ON s.id = mt.student_id
LEFT JOIN mentors m ON m.id = mt.mentor_id`

// MeetingRepository stores meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository constructs a meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a meeting. An overlapping occupying meeting for the same mentor
// fails on meetings_no_mentor_overlap.
func (r *MeetingRepository) Create(ctx context.Context, exec sqlx.ExtContext, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	meeting.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO meetings (id, assignment_id, mentor_id, student_id, meeting_date, meeting_time, duration, mode, location, status,
	requested_by_user_id, requested_by_role, requested_by_name, created_at)
VALUES (:id, :assignment_id, :mentor_id, :student_id, :meeting_date, :meeting_time, :duration, :mode, :location, :status,
	:requested_by_user_id, :requested_by_role, :requested_by_name, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, meeting); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// FindDetail returns a meeting with participant names.
func (r *MeetingRepository) FindDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.MeetingDetail, error) {
	query := meetingDetailSelect + ` WHERE mt.id = $1`
	var meeting models.MeetingDetail
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &meeting, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find meeting: %w", err)
	}
	return &meeting, nil
}

// ListOccupying returns the mentor's scheduled or requested meetings dated between from and to inclusive.
func (r *MeetingRepository) ListOccupying(ctx context.Context, exec sqlx.ExtContext, mentorID, from, to string) ([]models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings mt
WHERE mt.mentor_id = $1 AND mt.meeting_date BETWEEN $2 AND $3 AND mt.status IN ('scheduled', 'requested')
ORDER BY mt.meeting_date, mt.meeting_time`
	var meetings []models.Meeting
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &meetings, query, mentorID, from, to); err != nil {
		return nil, fmt.Errorf("list occupying meetings: %w", err)
	}
	return meetings, nil
}

// ListUpcomingForMentor returns open meetings from today onwards.
func (r *MeetingRepository) ListUpcomingForMentor(ctx context.Context, mentorID, today string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.mentor_id = $1 AND mt.meeting_date >= $2 AND mt.status IN ('scheduled', 'requested')
ORDER BY mt.meeting_date ASC, mt.meeting_time ASC`
	return r.selectDetails(ctx, "list upcoming mentor meetings", query, mentorID, today)
}

// ListOverdueForMentor returns meetings in the past or already closed.
func (r *MeetingRepository) ListOverdueForMentor(ctx context.Context, mentorID, today string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.mentor_id = $1 AND (mt.meeting_date < $2 OR mt.status IN ('done', 'missed', 'cancelled'))
ORDER BY mt.meeting_date DESC, mt.meeting_time DESC`
	return r.selectDetails(ctx, "list overdue mentor meetings", query, mentorID, today)
}

// ListUpcomingForStudent returns the student's scheduled meetings from today onwards.
func (r *MeetingRepository) ListUpcomingForStudent(ctx context.Context, studentID, today string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.student_id = $1 AND mt.meeting_date >= $2 AND mt.status = 'scheduled'
ORDER BY mt.meeting_date ASC, mt.meeting_time ASC`
	return r.selectDetails(ctx, "list upcoming student meetings", query, studentID, today)
}

// ListByStudent returns every meeting of a student, newest first.
func (r *MeetingRepository) ListByStudent(ctx context.Context, studentID string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.student_id = $1
ORDER BY mt.meeting_date DESC, mt.meeting_time DESC`
	return r.selectDetails(ctx, "list student meetings", query, studentID)
}

// ListByStudentAndMentor returns a student's meetings with one mentor, newest first.
func (r *MeetingRepository) ListByStudentAndMentor(ctx context.Context, studentID, mentorID string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.student_id = $1 AND mt.mentor_id = $2
ORDER BY mt.meeting_date DESC, mt.meeting_time DESC`
	return r.selectDetails(ctx, "list student meetings for mentor", query, studentID, mentorID)
}

// ListByMentor returns every meeting of a mentor, newest first.
func (r *MeetingRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error) {
	query := meetingDetailSelect + `
WHERE mt.mentor_id = $1
ORDER BY mt.meeting_date DESC, mt.meeting_time DESC`
	return r.selectDetails(ctx, "list mentor meetings", query, mentorID)
}

// UpdateStatus changes the status of a meeting owned by the mentor.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id, mentorID string, status models.MeetingStatus) error {
	const query = `UPDATE meetings SET status = $3 WHERE id = $1 AND mentor_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, mentorID, status)
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update meeting rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}

func (r *MeetingRepository) selectDetails(ctx context.Context, op, query string, args ...interface{}) ([]models.MeetingDetail, error) {
	var meetings []models.MeetingDetail
	if err := r.db.SelectContext(ctx, &meetings, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return meetings, nil
}
