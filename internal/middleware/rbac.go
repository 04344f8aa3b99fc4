package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

// RequireRoles admits only callers whose role is in the list.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[actor.Role()]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "access denied for role "+string(actor.Role())))
			c.Abort()
			return
		}
		c.Next()
	}
}
