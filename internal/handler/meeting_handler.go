package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type meetingService interface {
	Schedule(ctx context.Context, actor models.Actor, req dto.ScheduleMeetingRequest) (*models.MeetingDetail, error)
	UpcomingForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error)
	OverdueForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error)
	UpcomingForStudent(ctx context.Context, studentID string) ([]models.MeetingDetail, error)
	ForStudent(ctx context.Context, actor models.Actor, studentID string) ([]models.MeetingDetail, error)
	Detail(ctx context.Context, mentorID, id string) (*models.MeetingDetail, error)
	UpdateStatus(ctx context.Context, mentorID, id string, req dto.UpdateMeetingStatusRequest) (*models.MeetingDetail, error)
}

// MeetingHandler exposes the scheduler and meeting views.
type MeetingHandler struct {
	service meetingService
}

// NewMeetingHandler constructs a MeetingHandler.
func NewMeetingHandler(service meetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

// Schedule godoc
// @Summary Book a meeting
// @Description Mentors book for a student, students for themselves and parents for a linked child. A missing assignment is created on first booking.
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ScheduleMeetingRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /meetings [post]
func (h *MeetingHandler) Schedule(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.ScheduleMeetingRequest
	if !bindJSON(c, &req, "invalid meeting payload") {
		return
	}
	meeting, err := h.service.Schedule(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meeting)
}

// Upcoming godoc
// @Summary Mentor's upcoming meetings
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /meetings/upcoming [get]
func (h *MeetingHandler) Upcoming(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	meetings, err := h.service.UpcomingForMentor(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// Overdue godoc
// @Summary Mentor's past or closed meetings
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /meetings/overdue/list [get]
func (h *MeetingHandler) Overdue(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	meetings, err := h.service.OverdueForMentor(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// StudentUpcoming godoc
// @Summary Student's upcoming meetings
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /meetings/student/upcoming [get]
func (h *MeetingHandler) StudentUpcoming(c *gin.Context) {
	student, ok := studentFromContext(c)
	if !ok {
		return
	}
	meetings, err := h.service.UpcomingForStudent(c.Request.Context(), student.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// StudentMine godoc
// @Summary All of the student's meetings
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /meetings/student/me [get]
func (h *MeetingHandler) StudentMine(c *gin.Context) {
	student, ok := studentFromContext(c)
	if !ok {
		return
	}
	h.listForStudent(c, student, student.StudentID)
}

// ForStudent godoc
// @Summary Meetings of a student
// @Description Mentors see their own meetings with the student; linked parents see all.
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /meetings/student/{student_id} [get]
func (h *MeetingHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	h.listForStudent(c, actor, c.Param("student_id"))
}

func (h *MeetingHandler) listForStudent(c *gin.Context, actor models.Actor, studentID string) {
	meetings, err := h.service.ForStudent(c.Request.Context(), actor, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// Detail godoc
// @Summary Meeting detail
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /meetings/details/{id} [get]
func (h *MeetingHandler) Detail(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	meeting, err := h.service.Detail(c.Request.Context(), mentor.MentorID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// UpdateStatus godoc
// @Summary Update a meeting's status
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Param payload body dto.UpdateMeetingStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /meetings/{id} [put]
func (h *MeetingHandler) UpdateStatus(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateMeetingStatusRequest
	if !bindJSON(c, &req, "invalid meeting status payload") {
		return
	}
	meeting, err := h.service.UpdateStatus(c.Request.Context(), mentor.MentorID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}
