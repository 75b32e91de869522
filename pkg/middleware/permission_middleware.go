package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"backoffice/pkg/rbac"
	"backoffice/pkg/utils"
)

const ctxPermissions = "permissions"

type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, userID uuid.UUID) (rbac.Set, error)
}

// RequirePermission lets the request through when the user holds any of
// perms or ADMIN. It must run after JWTAuthMiddleware.
func RequirePermission(resolver PermissionResolver, perms ...string) gin.HandlerFunc {
	required := append([]string(nil), perms...)

	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}

		granted, err := resolver.EffectivePermissions(c.Request.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Str("trace_id", c.GetString("trace_id")).Msg("resolve permissions")
			utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !rbac.Allowed(granted, required) {
			utils.AbortWithError(c, http.StatusForbidden, "Access denied. Missing required permission.")
			return
		}

		c.Set(ctxPermissions, granted)
		c.Next()
	}
}

// Permissions returns the set stored by RequirePermission.
func Permissions(c *gin.Context) rbac.Set {
	if v, ok := c.Get(ctxPermissions); ok {
		if s, ok := v.(rbac.Set); ok {
			return s
		}
	}
	return nil
}
