package dto

// CreateGoalRequest sets a new goal for a student.
type CreateGoalRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid"`
	StudentID    string `json:"student_id" validate:"required,uuid"`
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	TargetDate   string `json:"target_date" validate:"required,datetime=2006-01-02"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateGoalRequest is a partial goal update. Absent fields are left unchanged.
type UpdateGoalRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	TargetDate  *string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in-progress completed deferred"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// MarkGoalRequest lets a student report progress on their own goal.
type MarkGoalRequest struct {
	Status string `json:"status" validate:"required,oneof=open in-progress completed deferred"`
}
