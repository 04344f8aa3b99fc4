package models

import "time"

// MeetingNote is a mentor's write-up attached to a meeting.
type MeetingNote struct {
	ID        string    `db:"id" json:"id"`
	MeetingID string    `db:"meeting_id" json:"meeting_id"`
	MentorID  string    `db:"mentor_id" json:"mentor_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MeetingNoteDetail adds meeting context to a note.
type MeetingNoteDetail struct {
	MeetingNote
	MeetingDate *string `db:"meeting_date" json:"meeting_date,omitempty"`
	MentorName  *string `db:"mentor_name" json:"mentor_name,omitempty"`
}

// GeneralNote is a free-form note under an assignment.
type GeneralNote struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	MentorID     string    `db:"mentor_id" json:"mentor_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Type         string    `db:"type" json:"type"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
