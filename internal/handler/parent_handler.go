package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type parentService interface {
	Children(ctx context.Context, parentID string) ([]models.Student, error)
	Profile(ctx context.Context, parentID string) (*models.Parent, error)
}

// ParentHandler serves the parent views.
type ParentHandler struct {
	service parentService
}

// NewParentHandler constructs a ParentHandler.
func NewParentHandler(service parentService) *ParentHandler {
	return &ParentHandler{service: service}
}

// Children godoc
// @Summary Students linked to the parent
// @Tags Parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /parents/children [get]
func (h *ParentHandler) Children(c *gin.Context) {
	parent, ok := parentFromContext(c)
	if !ok {
		return
	}
	children, err := h.service.Children(c.Request.Context(), parent.ParentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, children, nil)
}

// Profile godoc
// @Summary Parent profile
// @Tags Parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parents/profile [get]
func (h *ParentHandler) Profile(c *gin.Context) {
	parent, ok := parentFromContext(c)
	if !ok {
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), parent.ParentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
