package dto

// CreateMeetingNoteRequest attaches a note to a meeting.
type CreateMeetingNoteRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"omitempty,uuid"`
	Content   string `json:"content" validate:"required"`
}

// CreateGeneralNoteRequest adds a free-form note under an assignment.
type CreateGeneralNoteRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid"`
	StudentID    string `json:"student_id" validate:"required,uuid"`
	Type         string `json:"type" validate:"max=64"`
	Content      string `json:"content" validate:"required"`
}

// UpdateGeneralNoteRequest edits a general note.
type UpdateGeneralNoteRequest struct {
	Type    string `json:"type" validate:"max=64"`
	Content string `json:"content" validate:"required"`
}
