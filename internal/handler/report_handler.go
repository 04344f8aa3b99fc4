package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/middleware"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/internal/service"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type reportService interface {
	DashboardStats(ctx context.Context, mentorID string) (*models.DashboardStats, bool, error)
	AtRiskStudents(ctx context.Context, mentorID string) ([]models.AtRiskStudent, error)
	MenteeCount(ctx context.Context, mentorID string) (*models.MenteeCount, error)
	ExportMeetings(ctx context.Context, mentorID, format string) (*service.ReportFile, error)
}

type meetingReports interface {
	UpcomingForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error)
	OverdueForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error)
}

// ReportHandler exposes the mentor reporting endpoints.
type ReportHandler struct {
	reports  reportService
	meetings meetingReports
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, meetings meetingReports) *ReportHandler {
	return &ReportHandler{reports: reports, meetings: meetings}
}

// DashboardStats godoc
// @Summary Mentor dashboard counters
// @Description Served from cache when available; meta.cache_hit reports which.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/dashboard-stats [get]
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	stats, hit, err := h.reports.DashboardStats(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.Meta(c))
}

// UpcomingMeetings godoc
// @Summary Upcoming meetings report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/upcoming-meetings [get]
func (h *ReportHandler) UpcomingMeetings(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	meetings, err := h.meetings.UpcomingForMentor(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// OverdueMeetings godoc
// @Summary Overdue meetings report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/overdue-meetings [get]
func (h *ReportHandler) OverdueMeetings(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	meetings, err := h.meetings.OverdueForMentor(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// AtRiskStudents godoc
// @Summary Mentees with unfinished goals
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/at-risk-students [get]
func (h *ReportHandler) AtRiskStudents(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	students, err := h.reports.AtRiskStudents(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// MenteeCount godoc
// @Summary Active mentee count
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/mentee-count [get]
func (h *ReportHandler) MenteeCount(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	count, err := h.reports.MenteeCount(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Export godoc
// @Summary Export meeting history
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	file, err := h.reports.ExportMeetings(c.Request.Context(), mentor.MentorID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}
