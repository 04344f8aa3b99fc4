package models

import "time"

// GoalStatus tracks progress on a goal.
type GoalStatus string

const (
	GoalOpen       GoalStatus = "open"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalDeferred   GoalStatus = "deferred"
)

// GoalPriority ranks goals.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Goal is a target a mentor sets for a student.
type Goal struct {
	ID           string       `db:"id" json:"id"`
	AssignmentID string       `db:"assignment_id" json:"assignment_id"`
	MentorID     string       `db:"mentor_id" json:"mentor_id"`
	StudentID    string       `db:"student_id" json:"student_id"`
	Title        string       `db:"title" json:"title"`
	Description  *string      `db:"description" json:"description,omitempty"`
	TargetDate   string       `db:"target_date" json:"target_date"`
	Status       GoalStatus   `db:"status" json:"status"`
	Priority     GoalPriority `db:"priority" json:"priority"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// GoalDetail joins participant names onto a goal.
type GoalDetail struct {
	Goal
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	MentorName  *string `db:"mentor_name" json:"mentor_name,omitempty"`
}

// GoalPatch holds optional goal changes; nil fields keep their stored value.
type GoalPatch struct {
	Title       *string
	Description *string
	TargetDate  *string
	Status      *GoalStatus
	Priority    *GoalPriority
}
