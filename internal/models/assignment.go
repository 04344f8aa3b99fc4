package models

import "time"

// AssignmentStatus tracks whether a mentor-student pairing is current.
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentEnded    AssignmentStatus = "ended"
	AssignmentInactive AssignmentStatus = "inactive"
)

// Assignment pairs a mentor with a student. At most one per student is active.
type Assignment struct {
	ID        string           `db:"id" json:"id"`
	MentorID  string           `db:"mentor_id" json:"mentor_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	StartDate string           `db:"start_date" json:"start_date"`
	EndDate   *string          `db:"end_date" json:"end_date,omitempty"`
	Status    AssignmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins display names onto an assignment.
type AssignmentDetail struct {
	Assignment
	MentorName  *string `db:"mentor_name" json:"mentor_name,omitempty"`
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	RollNumber  *string `db:"roll_number" json:"roll_number,omitempty"`
}

// AssignmentFilter narrows the admin assignment listing.
type AssignmentFilter struct {
	Status   AssignmentStatus
	MentorID string
	Page     int
	PageSize int
}
