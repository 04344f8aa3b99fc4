package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type interventionService interface {
	Create(ctx context.Context, mentorID string, req dto.CreateInterventionRequest) (*models.Intervention, error)
	ForStudent(ctx context.Context, mentorID, studentID string) ([]models.InterventionDetail, error)
	Active(ctx context.Context, mentorID string) ([]models.InterventionDetail, error)
	UpdateStatus(ctx context.Context, mentorID, id string, req dto.UpdateInterventionRequest) (*models.Intervention, error)
}

// InterventionHandler serves intervention endpoints.
type InterventionHandler struct {
	service interventionService
}

// NewInterventionHandler constructs an InterventionHandler.
func NewInterventionHandler(service interventionService) *InterventionHandler {
	return &InterventionHandler{service: service}
}

// Create godoc
// @Summary Log an intervention
// @Tags Interventions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateInterventionRequest true "Intervention payload"
// @Success 201 {object} response.Envelope
// @Router /interventions [post]
func (h *InterventionHandler) Create(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateInterventionRequest
	if !bindJSON(c, &req, "invalid intervention payload") {
		return
	}
	item, err := h.service.Create(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// ForStudent godoc
// @Summary Interventions for a student
// @Tags Interventions
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /interventions/student/{student_id} [get]
func (h *InterventionHandler) ForStudent(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.ForStudent(c.Request.Context(), mentor.MentorID, c.Param("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Active godoc
// @Summary Pending and ongoing interventions
// @Tags Interventions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /interventions/active/all [get]
func (h *InterventionHandler) Active(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.Active(c.Request.Context(), mentor.MentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Update an intervention
// @Tags Interventions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Intervention ID"
// @Param payload body dto.UpdateInterventionRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /interventions/{id} [put]
func (h *InterventionHandler) Update(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateInterventionRequest
	if !bindJSON(c, &req, "invalid intervention payload") {
		return
	}
	item, err := h.service.UpdateStatus(c.Request.Context(), mentor.MentorID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
