package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type mentorService interface {
	Mentees(ctx context.Context, mentorID string) ([]models.Mentee, error)
	AllStudents(ctx context.Context) ([]models.StudentOverview, error)
	Profile(ctx context.Context, mentorID string) (*models.MentorProfile, error)
	UpdateProfile(ctx context.Context, mentorID string, req dto.UpdateMentorProfileRequest) (*models.MentorProfile, error)
}

// MentorHandler serves the mentor self-service endpoints.
type MentorHandler struct {
	service     mentorService
	assignments assignmentService
}

// NewMentorHandler constructs a MentorHandler.
func NewMentorHandler(service mentorService, assignments assignmentService) *MentorHandler {
	return &MentorHandler{service: service, assignments: assignments}
}

// Mentees godoc
// @Summary Students assigned to the mentor
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /mentors/mentees [get]
func (h *MentorHandler) Mentees(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	mentees, err := h.service.Mentees(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentees, nil)
}

// AllStudents godoc
// @Summary Every student with their current mentor
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /mentors/students/all [get]
func (h *MentorHandler) AllStudents(c *gin.Context) {
	students, err := h.service.AllStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Profile godoc
// @Summary Mentor profile
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /mentors/profile [get]
func (h *MentorHandler) Profile(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateProfile godoc
// @Summary Update mentor profile
// @Tags Mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateMentorProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/profile [put]
func (h *MentorHandler) UpdateProfile(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateMentorProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.service.UpdateProfile(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SelfAssign godoc
// @Summary Take on a student
// @Tags Mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SelfAssignRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors/assign [post]
func (h *MentorHandler) SelfAssign(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.SelfAssignRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.assignments.SelfAssign(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}
