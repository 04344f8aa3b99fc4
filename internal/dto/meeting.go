package dto

// ScheduleMeetingRequest books a meeting. Which ids are required depends on the caller's role.
type ScheduleMeetingRequest struct {
	AssignmentID string `json:"assignment_id" validate:"omitempty,uuid"`
	StudentID    string `json:"student_id" validate:"omitempty,uuid"`
	MentorID     string `json:"mentor_id" validate:"omitempty,uuid"`
	MeetingDate  string `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	MeetingTime  string `json:"meeting_time" validate:"required"`
	Duration     *int   `json:"duration" validate:"omitempty,min=1,max=720"`
	Mode         string `json:"mode" validate:"omitempty,oneof=online offline"`
	Location     string `json:"location" validate:"max=255"`
}

// UpdateMeetingStatusRequest moves a meeting through its lifecycle.
type UpdateMeetingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled done missed cancelled"`
}
