package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"backoffice/internal/models/db_models"
	"backoffice/pkg/utils"
)

const (
	ctxUserID = "user_id"
	ctxUser   = "user"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*db_models.User, error)
}

func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := auth.Authenticate(c.Request.Context(), tokenString)
		switch {
		case err == nil:
		case errors.Is(err, utils.ErrInvalidToken):
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		case errors.Is(err, utils.ErrUserNotFound):
			utils.AbortWithError(c, http.StatusUnauthorized, "User not found")
			return
		case errors.Is(err, utils.ErrAccountRestricted):
			utils.AbortWithError(c, http.StatusForbidden, "Account is suspended or banned")
			return
		default:
			log.Error().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("authenticate request")
			utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Set(ctxUserID, user.ID.String())
		c.Set(ctxUser, user)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ctxUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func CurrentUser(c *gin.Context) *db_models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*db_models.User); ok {
			return u
		}
	}
	return nil
}

// Platform is the client platform from X-Platform, "web" by default.
func Platform(c *gin.Context) string {
	if p := strings.TrimSpace(c.GetHeader("X-Platform")); p != "" {
		return strings.ToLower(p)
	}
	return db_models.PlatformWeb
}
