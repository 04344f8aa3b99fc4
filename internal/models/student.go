package models

import "time"

// Student is a mentee profile linked to a user account and optionally a parent.
type Student struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	ParentID       *string   `db:"parent_id" json:"parent_id,omitempty"`
	Name           string    `db:"name" json:"name"`
	RollNumber     string    `db:"roll_number" json:"roll_number"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Program        *string   `db:"program" json:"program,omitempty"`
	Year           *int      `db:"year" json:"year,omitempty"`
	AcademicStatus string    `db:"academic_status" json:"academic_status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StudentFilter narrows the admin student listing.
type StudentFilter struct {
	Search   string
	Program  string
	Year     *int
	Page     int
	PageSize int
}

// StudentOverview is a student with their current active assignment, if any.
type StudentOverview struct {
	Student
	AssignmentID *string `db:"assignment_id" json:"assignment_id,omitempty"`
	MentorID     *string `db:"mentor_id" json:"mentor_id,omitempty"`
	MentorName   *string `db:"mentor_name" json:"mentor_name,omitempty"`
}

// Mentee is a student seen through one of a mentor's assignments.
type Mentee struct {
	Student
	AssignmentID     string           `db:"assignment_id" json:"assignment_id"`
	AssignmentStatus AssignmentStatus `db:"assignment_status" json:"assignment_status"`
	StartDate        string           `db:"start_date" json:"start_date"`
	EndDate          *string          `db:"end_date" json:"end_date,omitempty"`
}
