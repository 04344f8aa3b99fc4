package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Me(claims *models.JWTClaims) (*models.UserInfo, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
}

type registrationService interface {
	RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (*dto.RegistrationResult, error)
	RegisterMentor(ctx context.Context, req dto.RegisterMentorRequest) (*dto.RegistrationResult, error)
	RegisterParent(ctx context.Context, req dto.RegisterParentRequest) (*dto.RegistrationResult, error)
}

// AuthHandler wires login and account registration endpoints.
type AuthHandler struct {
	service      authService
	registration registrationService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, registration registrationService) *AuthHandler {
	return &AuthHandler{service: svc, registration: registration}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	info, err := h.service.Me(claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChangePasswordRequest true "Password payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req, "invalid password payload") {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), actor.UserID(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterStudent godoc
// @Summary Register a student
// @Description Creates a student account, linking or creating the parent account when parent_email is given
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register-student [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !bindJSON(c, &req, "invalid student registration payload") {
		return
	}
	res, err := h.registration.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// RegisterMentor godoc
// @Summary Register a mentor
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RegisterMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register-mentor [post]
func (h *AuthHandler) RegisterMentor(c *gin.Context) {
	var req dto.RegisterMentorRequest
	if !bindJSON(c, &req, "invalid mentor registration payload") {
		return
	}
	res, err := h.registration.RegisterMentor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// RegisterParent godoc
// @Summary Register a parent
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RegisterParentRequest true "Parent payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register-parent [post]
func (h *AuthHandler) RegisterParent(c *gin.Context) {
	var req dto.RegisterParentRequest
	if !bindJSON(c, &req, "invalid parent registration payload") {
		return
	}
	res, err := h.registration.RegisterParent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
