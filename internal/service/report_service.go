package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
	"github.com/noah-isme/mentortrack-api/pkg/export"
)

type reportStore interface {
	DashboardStats(ctx context.Context, mentorID, today string) (*models.DashboardStats, error)
	AtRiskStudents(ctx context.Context, mentorID string) ([]models.AtRiskStudent, error)
	ActiveMenteeCount(ctx context.Context, mentorID string) (int, error)
}

type meetingHistory interface {
	ListByMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error)
}

// ReportConfig tunes the mentor reports.
type ReportConfig struct {
	CacheTTL time.Duration
	Location *time.Location
}

// ReportFile is a rendered export ready to be streamed.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService builds mentor dashboards and exports.
type ReportService struct {
	reports  reportStore
	meetings meetingHistory
	cache    *CacheService
	logger   *zap.Logger
	clock    clock
	ttl      time.Duration
}

// NewReportService constructs a ReportService.
func NewReportService(reports reportStore, meetings meetingHistory, cache *CacheService, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ReportService{
		reports:  reports,
		meetings: meetings,
		cache:    cache,
		logger:   logger,
		clock:    newClock(cfg.Location),
		ttl:      cfg.CacheTTL,
	}
}

// DashboardStats returns the mentor's caseload summary and whether it came from cache.
func (s *ReportService) DashboardStats(ctx context.Context, mentorID string) (*models.DashboardStats, bool, error) {
	key := dashboardCacheKey(mentorID)
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.reports.DashboardStats(ctx, mentorID, s.clock.today())
	if err != nil {
		s.logger.Error("failed to compute dashboard stats", zap.String("mentor_id", mentorID), zap.Error(err))
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard")
	}
	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
	return stats, false, nil
}

// AtRiskStudents lists mentees with unfinished goals.
func (s *ReportService) AtRiskStudents(ctx context.Context, mentorID string) ([]models.AtRiskStudent, error) {
	students, err := s.reports.AtRiskStudents(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list at-risk students")
	}
	return students, nil
}

// MenteeCount counts the mentor's active mentees.
func (s *ReportService) MenteeCount(ctx context.Context, mentorID string) (*models.MenteeCount, error) {
	count, err := s.reports.ActiveMenteeCount(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count mentees")
	}
	return &models.MenteeCount{MentorID: mentorID, Count: count}, nil
}

var meetingExportHeaders = []string{"Date", "Time", "Duration", "Student", "Roll No", "Mode", "Status", "Requested By"}

// ExportMeetings renders the mentor's meeting history as CSV or PDF.
func (s *ReportService) ExportMeetings(ctx context.Context, mentorID, format string) (*ReportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	meetings, err := s.meetings.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings")
	}

	today := s.clock.today()
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Meetings as of %s", today),
		Headers: meetingExportHeaders,
		Rows:    make([]map[string]string, 0, len(meetings)),
	}
	for _, m := range meetings {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":         m.MeetingDate,
			"Time":         m.MeetingTime,
			"Duration":     strconv.Itoa(m.Duration),
			"Student":      deref(m.StudentName),
			"Roll No":      deref(m.RollNumber),
			"Mode":         string(m.Mode),
			"Status":       string(m.Status),
			"Requested By": deref(m.RequestedByName),
		})
	}

	content, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("failed to render meeting export", zap.String("format", renderer.Extension()), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("meetings-%s.%s", today, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
