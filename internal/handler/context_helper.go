package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/middleware"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext returns the caller or writes a 401 and returns false.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return actor, true
}

func mentorFromContext(c *gin.Context) (models.MentorActor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		return models.MentorActor{}, false
	}
	mentor, ok := actor.(models.MentorActor)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "mentor access required"))
		return models.MentorActor{}, false
	}
	return mentor, true
}

func studentFromContext(c *gin.Context) (models.StudentActor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		return models.StudentActor{}, false
	}
	student, ok := actor.(models.StudentActor)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student access required"))
		return models.StudentActor{}, false
	}
	return student, true
}

func parentFromContext(c *gin.Context) (models.ParentActor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		return models.ParentActor{}, false
	}
	parent, ok := actor.(models.ParentActor)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "parent access required"))
		return models.ParentActor{}, false
	}
	return parent, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
