package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type adminUserService interface {
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	ListMentors(ctx context.Context) ([]models.Mentor, error)
	DeleteMentor(ctx context.Context, mentorID string) error
	DeleteStudent(ctx context.Context, studentID string) error
}

type assignmentService interface {
	Assign(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	SelfAssign(ctx context.Context, mentorID string, req dto.SelfAssignRequest) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error)
	Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error)
}

// AdminHandler serves the admin directory and assignment endpoints.
type AdminHandler struct {
	users       adminUserService
	assignments assignmentService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(users adminUserService, assignments assignmentService) *AdminHandler {
	return &AdminHandler{users: users, assignments: assignments}
}

// ListStudents godoc
// @Summary List students
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, roll number or email"
// @Param program query string false "Program"
// @Param year query int false "Year"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/all [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	filter := models.StudentFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Program:  strings.TrimSpace(c.Query("program")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", models.DefaultPageSize),
	}
	if year := queryInt(c, "year", 0); year > 0 {
		filter.Year = &year
	}
	students, pagination, err := h.users.ListStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// ListMentors godoc
// @Summary List mentors
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/mentors/all [get]
func (h *AdminHandler) ListMentors(c *gin.Context) {
	mentors, err := h.users.ListMentors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, nil)
}

// DeleteMentor godoc
// @Summary Delete a mentor account
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Mentor ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/mentors/{id} [delete]
func (h *AdminHandler) DeleteMentor(c *gin.Context) {
	if err := h.users.DeleteMentor(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteStudent godoc
// @Summary Delete a student account
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id} [delete]
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	if err := h.users.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assign godoc
// @Summary Assign a mentor to a student
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/assign [post]
func (h *AdminHandler) Assign(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.assignments.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// ListAssignments godoc
// @Summary List assignments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, ended or inactive"
// @Param mentor_id query string false "Mentor ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/assignments/all [get]
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	filter := models.AssignmentFilter{
		Status:   models.AssignmentStatus(strings.TrimSpace(c.Query("status"))),
		MentorID: strings.TrimSpace(c.Query("mentor_id")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", models.DefaultPageSize),
	}
	items, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// UpdateAssignment godoc
// @Summary Update an assignment's status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/assign/{id} [put]
func (h *AdminHandler) UpdateAssignment(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
