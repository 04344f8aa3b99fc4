package models

import "time"

// InterventionStatus tracks an intervention's progress.
type InterventionStatus string

const (
	InterventionPending   InterventionStatus = "pending"
	InterventionOngoing   InterventionStatus = "ongoing"
	InterventionCompleted InterventionStatus = "completed"
)

// Intervention is an action a mentor logs for a struggling student.
type Intervention struct {
	ID           string             `db:"id" json:"id"`
	AssignmentID string             `db:"assignment_id" json:"assignment_id"`
	MentorID     string             `db:"mentor_id" json:"mentor_id"`
	StudentID    string             `db:"student_id" json:"student_id"`
	Type         string             `db:"type" json:"type"`
	Description  *string            `db:"description" json:"description,omitempty"`
	ActionDate   string             `db:"action_date" json:"action_date"`
	Status       InterventionStatus `db:"status" json:"status"`
	Outcome      *string            `db:"outcome" json:"outcome,omitempty"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
}

// InterventionDetail joins the student name.
type InterventionDetail struct {
	Intervention
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
}
