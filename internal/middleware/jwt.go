package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

// Context keys for the authenticated caller.
const (
	ContextUserKey  = "currentUser"
	ContextActorKey = "currentActor"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token. The claims are decoded
// once into an actor so handlers never inspect raw role strings.
func JWT(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		actor, err := models.ActorFromClaims(claims)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor stored by JWT.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	value, ok := c.Get(ContextActorKey)
	if !ok {
		return nil, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
