package models

import "time"

// Mentor is the profile attached to a mentor account.
type Mentor struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Department   *string   `db:"department" json:"department,omitempty"`
	Availability *string   `db:"availability" json:"availability,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MentorProfile adds the live mentee count to a mentor.
type MentorProfile struct {
	Mentor
	MenteeCount int `db:"mentee_count" json:"mentee_count"`
}
