package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

// ReportRepository runs the mentor report aggregates.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a report repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DashboardStats aggregates the mentor's caseload counters in one round trip.
func (r *ReportRepository) DashboardStats(ctx context.Context, mentorID, today string) (*models.DashboardStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM assignments WHERE mentor_id = $1 AND status = 'active') AS total_mentees,
	(SELECT COUNT(*) FROM meetings WHERE mentor_id = $1 AND meeting_date >= $2 AND status IN ('scheduled', 'requested')) AS upcoming_meetings,
	(SELECT COUNT(*) FROM meetings WHERE mentor_id = $1 AND meeting_date < $2 AND status IN ('scheduled', 'requested')) AS overdue_meetings,
	(SELECT COUNT(*) FROM goals WHERE mentor_id = $1 AND status IN ('open', 'in-progress')) AS active_goals,
	(SELECT COUNT(*) FROM interventions WHERE mentor_id = $1 AND status IN ('pending', 'ongoing')) AS active_interventions`
	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query, mentorID, today); err != nil {
		return nil, fmt.Errorf("load dashboard stats: %w", err)
	}
	return &stats, nil
}

// AtRiskStudents returns mentees with goals that are not completed.
func (r *ReportRepository) AtRiskStudents(ctx context.Context, mentorID string) ([]models.AtRiskStudent, error) {
	const query = `SELECT s.id AS student_id, s.name, s.roll_number, COUNT(g.id) AS open_goals,
	to_char(MIN(g.target_date), 'YYYY-MM-DD') AS next_target_date
FROM goals g
JOIN students s ON s.id = g.student_id
WHERE g.mentor_id = $1 AND g.status <> 'completed'
GROUP BY s.id, s.name, s.roll_number
ORDER BY open_goals DESC, s.name ASC`
	var students []models.AtRiskStudent
	if err := r.db.SelectContext(ctx, &students, query, mentorID); err != nil {
		return nil, fmt.Errorf("list at-risk students: %w", err)
	}
	return students, nil
}

// ActiveMenteeCount counts the mentor's active assignments.
func (r *ReportRepository) ActiveMenteeCount(ctx context.Context, mentorID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assignments WHERE mentor_id = $1 AND status = 'active'`, mentorID); err != nil {
		return 0, fmt.Errorf("count mentees: %w", err)
	}
	return count, nil
}
