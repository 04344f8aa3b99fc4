package models

// DashboardStats summarises a mentor's caseload.
type DashboardStats struct {
	TotalMentees        int `db:"total_mentees" json:"total_mentees"`
	UpcomingMeetings    int `db:"upcoming_meetings" json:"upcoming_meetings"`
	OverdueMeetings     int `db:"overdue_meetings" json:"overdue_meetings"`
	ActiveGoals         int `db:"active_goals" json:"active_goals"`
	ActiveInterventions int `db:"active_interventions" json:"active_interventions"`
}

// AtRiskStudent is a mentee with unfinished goals.
type AtRiskStudent struct {
	StudentID     string  `db:"student_id" json:"student_id"`
	Name          string  `db:"name" json:"name"`
	RollNumber    string  `db:"roll_number" json:"roll_number"`
	OpenGoals     int     `db:"open_goals" json:"open_goals"`
	NextTargetDue *string `db:"next_target_date" json:"next_target_date,omitempty"`
}

// MenteeCount reports how many students a mentor is actively paired with.
type MenteeCount struct {
	MentorID string `json:"mentor_id"`
	Count    int    `json:"count"`
}
