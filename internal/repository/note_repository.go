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

const meetingNoteDetailSelect = `SELECT n.id, n.meeting_id, n.mentor_id, n.student_id, n.content, n.created_at,
	to_char(mt.meeting_date, 'YYYY-MM-DD') AS meeting_date, m.name AS mentor_name
FROM meeting_notes n
LEFT JOIN meetings mt ON mt.id = n.meeting_id
LEFT JOIN mentors m ON m.id = n.mentor_id`

const generalNoteColumns = `id, assignment_id, mentor_id, student_id, type, content, created_at, updated_at`

// NoteRepository stores meeting notes and general notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs a note repository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// CreateMeetingNote inserts a note for a meeting.
func (r *NoteRepository) CreateMeetingNote(ctx context.Context, note *models.MeetingNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO meeting_notes (id, meeting_id, mentor_id, student_id, content, created_at)
VALUES (:id, :meeting_id, :mentor_id, :student_id, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("insert meeting note: %w", err)
	}
	return nil
}

// ListByMeeting returns the notes of a meeting, oldest first.
func (r *NoteRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.MeetingNoteDetail, error) {
	query := meetingNoteDetailSelect + ` WHERE n.meeting_id = $1 ORDER BY n.created_at ASC`
	var notes []models.MeetingNoteDetail
	if err := r.db.SelectContext(ctx, &notes, query, meetingID); err != nil {
		return nil, fmt.Errorf("list meeting notes: %w", err)
	}
	return notes, nil
}

// ListMeetingNotesByStudent returns a student's meeting notes, restricted to one
// mentor when mentorID is set.
func (r *NoteRepository) ListMeetingNotesByStudent(ctx context.Context, studentID, mentorID string) ([]models.MeetingNoteDetail, error) {
	query := meetingNoteDetailSelect + ` WHERE n.student_id = $1`
	args := []interface{}{studentID}
	if mentorID != "" {
		query += ` AND n.mentor_id = $2`
		args = append(args, mentorID)
	}
	query += ` ORDER BY n.created_at DESC`
	var notes []models.MeetingNoteDetail
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list student meeting notes: %w", err)
	}
	return notes, nil
}

// CreateGeneralNote inserts a general note.
func (r *NoteRepository) CreateGeneralNote(ctx context.Context, note *models.GeneralNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	const query = `INSERT INTO general_notes (id, assignment_id, mentor_id, student_id, type, content, created_at, updated_at)
VALUES (:id, :assignment_id, :mentor_id, :student_id, :type, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("insert general note: %w", err)
	}
	return nil
}

// ListGeneralByStudent returns a mentor's general notes for a student.
func (r *NoteRepository) ListGeneralByStudent(ctx context.Context, studentID, mentorID string) ([]models.GeneralNote, error) {
	query := `SELECT ` + generalNoteColumns + ` FROM general_notes WHERE student_id = $1 AND mentor_id = $2 ORDER BY created_at DESC`
	var notes []models.GeneralNote
	if err := r.db.SelectContext(ctx, &notes, query, studentID, mentorID); err != nil {
		return nil, fmt.Errorf("list general notes: %w", err)
	}
	return notes, nil
}

// UpdateGeneralNote edits a general note owned by the mentor. An empty noteType keeps the stored type.
func (r *NoteRepository) UpdateGeneralNote(ctx context.Context, id, mentorID, noteType, content string) (*models.GeneralNote, error) {
	query := `UPDATE general_notes SET content = $3, type = COALESCE(NULLIF($4, ''), type), updated_at = $5
WHERE id = $1 AND mentor_id = $2
RETURNING ` + generalNoteColumns
	var note models.GeneralNote
	if err := r.db.GetContext(ctx, &note, query, id, mentorID, content, noteType, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update general note: %w", err)
	}
	return &note, nil
}
