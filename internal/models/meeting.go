package models

import "time"

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingRequested MeetingStatus = "requested"
	MeetingDone      MeetingStatus = "done"
	MeetingMissed    MeetingStatus = "missed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Occupies reports whether a meeting in this status blocks the mentor's calendar.
func (s MeetingStatus) Occupies() bool {
	return s == MeetingScheduled || s == MeetingRequested
}

// MeetingMode is how the meeting takes place.
type MeetingMode string

const (
	MeetingOnline  MeetingMode = "online"
	MeetingOffline MeetingMode = "offline"
)

// Meeting is a scheduled session under an assignment. MeetingDate is
// YYYY-MM-DD and MeetingTime HH:MM in the application timezone.
type Meeting struct {
	ID                string        `db:"id" json:"id"`
	AssignmentID      string        `db:"assignment_id" json:"assignment_id"`
	MentorID          string        `db:"mentor_id" json:"mentor_id"`
	StudentID         string        `db:"student_id" json:"student_id"`
	MeetingDate       string        `db:"meeting_date" json:"meeting_date"`
	MeetingTime       string        `db:"meeting_time" json:"meeting_time"`
	Duration          int           `db:"duration" json:"duration"`
	Mode              MeetingMode   `db:"mode" json:"mode"`
	Location          *string       `db:"location" json:"location,omitempty"`
	Status            MeetingStatus `db:"status" json:"status"`
	RequestedByUserID *string       `db:"requested_by_user_id" json:"requested_by_user_id,omitempty"`
	RequestedByRole   *UserRole     `db:"requested_by_role" json:"requested_by_role,omitempty"`
	RequestedByName   *string       `db:"requested_by_name" json:"requested_by_name,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
}

// MeetingDetail joins participant names onto a meeting.
type MeetingDetail struct {
	Meeting
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	RollNumber  *string `db:"roll_number" json:"roll_number,omitempty"`
	MentorName  *string `db:"mentor_name" json:"mentor_name,omitempty"`
}
