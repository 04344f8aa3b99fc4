package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type goalService interface {
	Create(ctx context.Context, mentorID string, req dto.CreateGoalRequest) (*models.Goal, error)
	ForStudentSelf(ctx context.Context, studentID string) ([]models.GoalDetail, error)
	ForStudent(ctx context.Context, mentorID, studentID string) ([]models.GoalDetail, error)
	ForMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.GoalDetail, error)
	Update(ctx context.Context, mentorID, id string, req dto.UpdateGoalRequest) (*models.Goal, error)
	Mark(ctx context.Context, studentID, id string, req dto.MarkGoalRequest) (*models.Goal, error)
	Delete(ctx context.Context, mentorID, id string) error
}

// GoalHandler serves goal endpoints for mentors and students.
type GoalHandler struct {
	service goalService
}

// NewGoalHandler constructs a GoalHandler.
func NewGoalHandler(service goalService) *GoalHandler {
	return &GoalHandler{service: service}
}

// Create godoc
// @Summary Set a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateGoalRequest true "Goal payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if !bindJSON(c, &req, "invalid goal payload") {
		return
	}
	goal, err := h.service.Create(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, goal)
}

// Mine godoc
// @Summary Student's own goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /goals/student/me [get]
func (h *GoalHandler) Mine(c *gin.Context) {
	student, ok := studentFromContext(c)
	if !ok {
		return
	}
	goals, err := h.service.ForStudentSelf(c.Request.Context(), student.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goals, nil)
}

// Mark godoc
// @Summary Update own goal status
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param payload body dto.MarkGoalRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id}/mark [put]
func (h *GoalHandler) Mark(c *gin.Context) {
	student, ok := studentFromContext(c)
	if !ok {
		return
	}
	var req dto.MarkGoalRequest
	if !bindJSON(c, &req, "invalid goal status") {
		return
	}
	goal, err := h.service.Mark(c.Request.Context(), student.StudentID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goal, nil)
}

// ForStudent godoc
// @Summary Goals the mentor set for a student
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /goals/student/{student_id} [get]
func (h *GoalHandler) ForStudent(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	goals, err := h.service.ForStudent(c.Request.Context(), mentor.MentorID, c.Param("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goals, nil)
}

// Active godoc
// @Summary Mentor's unfinished goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /goals/active/all [get]
func (h *GoalHandler) Active(c *gin.Context) {
	h.listForMentor(c, true)
}

// All godoc
// @Summary All of the mentor's goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /goals/all [get]
func (h *GoalHandler) All(c *gin.Context) {
	h.listForMentor(c, false)
}

func (h *GoalHandler) listForMentor(c *gin.Context, activeOnly bool) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	goals, err := h.service.ForMentor(c.Request.Context(), mentor.MentorID, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goals, nil)
}

// Update godoc
// @Summary Partially update a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param payload body dto.UpdateGoalRequest true "Goal fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if !bindJSON(c, &req, "invalid goal payload") {
		return
	}
	goal, err := h.service.Update(c.Request.Context(), mentor.MentorID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goal, nil)
}

// Delete godoc
// @Summary Delete a goal
// @Tags Goals
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), mentor.MentorID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
