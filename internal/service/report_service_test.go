package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type stubReportStore struct {
	calls int
	today string
	err   error
}

func (s *stubReportStore) DashboardStats(ctx context.Context, mentorID, today string) (*models.DashboardStats, error) {
	s.calls++
	s.today = today
	if s.err != nil {
		return nil, s.err
	}
	return &models.DashboardStats{TotalMentees: 4, UpcomingMeetings: 2, ActiveGoals: 3}, nil
}

func (s *stubReportStore) AtRiskStudents(ctx context.Context, mentorID string) ([]models.AtRiskStudent, error) {
	return []models.AtRiskStudent{{StudentID: studentBen, OpenGoals: 2}}, nil
}

func (s *stubReportStore) ActiveMenteeCount(ctx context.Context, mentorID string) (int, error) {
	return 4, nil
}

type stubMeetingHistory struct{}

func (stubMeetingHistory) ListByMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error) {
	name := "Ben"
	return []models.MeetingDetail{{
		Meeting:     models.Meeting{MeetingDate: "2025-11-28", MeetingTime: "09:00", Duration: 30, Mode: models.MeetingOnline, Status: models.MeetingDone},
		StudentName: &name,
	}}, nil
}

func TestDashboardStatsUsesCache(t *testing.T) {
	store := &stubReportStore{}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	svc := NewReportService(store, stubMeetingHistory{}, cache, nil, ReportConfig{})
	svc.clock.now = func() time.Time { return time.Date(2025, 11, 20, 23, 30, 0, 0, time.UTC) }

	stats, hit, err := svc.DashboardStats(context.Background(), mentorRao)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, stats.TotalMentees)
	assert.Equal(t, "2025-11-20", store.today)

	stats, hit, err = svc.DashboardStats(context.Background(), mentorRao)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, stats.ActiveGoals)
	assert.Equal(t, 1, store.calls)

	require.NoError(t, cache.Invalidate(context.Background(), dashboardCacheKey(mentorRao)))
	_, hit, err = svc.DashboardStats(context.Background(), mentorRao)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, store.calls)
}

func TestDashboardStatsWithoutCache(t *testing.T) {
	store := &stubReportStore{err: errors.New("db down")}
	svc := NewReportService(store, stubMeetingHistory{}, nil, nil, ReportConfig{})

	_, _, err := svc.DashboardStats(context.Background(), mentorRao)
	assertCode(t, err, appErrors.ErrInternal)
}

func TestExportMeetings(t *testing.T) {
	svc := NewReportService(&stubReportStore{}, stubMeetingHistory{}, nil, nil, ReportConfig{})
	svc.clock.now = func() time.Time { return time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC) }

	file, err := svc.ExportMeetings(context.Background(), mentorRao, "csv")
	require.NoError(t, err)
	assert.Equal(t, "meetings-2025-11-30.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	assert.Contains(t, string(file.Content), "2025-11-28")
	assert.Contains(t, string(file.Content), "Ben")

	file, err = svc.ExportMeetings(context.Background(), mentorRao, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))

	_, err = svc.ExportMeetings(context.Background(), mentorRao, "xlsx")
	assertCode(t, err, appErrors.ErrValidation)
}

func TestMenteeCount(t *testing.T) {
	svc := NewReportService(&stubReportStore{}, stubMeetingHistory{}, nil, nil, ReportConfig{})
	count, err := svc.MenteeCount(context.Background(), mentorRao)
	require.NoError(t, err)
	assert.Equal(t, &models.MenteeCount{MentorID: mentorRao, Count: 4}, count)
}
