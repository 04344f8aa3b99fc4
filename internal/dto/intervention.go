package dto

// CreateInterventionRequest logs an intervention.
type CreateInterventionRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid"`
	StudentID    string `json:"student_id" validate:"required,uuid"`
	Type         string `json:"type" validate:"max=64"`
	Description  string `json:"description"`
	ActionDate   string `json:"action_date" validate:"required,datetime=2006-01-02"`
}

// UpdateInterventionRequest records progress on an intervention.
type UpdateInterventionRequest struct {
	Status  string  `json:"status" validate:"required,oneof=pending ongoing completed"`
	Outcome *string `json:"outcome"`
}
