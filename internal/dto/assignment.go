package dto

// CreateAssignmentRequest is the admin payload pairing a mentor with a student.
type CreateAssignmentRequest struct {
	MentorID  string `json:"mentor_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// SelfAssignRequest lets a mentor take on a student.
type SelfAssignRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateAssignmentRequest changes an assignment's status or end date.
type UpdateAssignmentRequest struct {
	Status  string `json:"status" validate:"required,oneof=active ended inactive"`
	EndDate string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
