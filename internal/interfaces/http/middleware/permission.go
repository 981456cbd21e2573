package middleware

import (
	"net/http"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for role middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, required []identity.Role)
}

// RequireAdmin only lets administrators through. It must run after
// JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoleWithConfig(PermissionConfig{}, identity.RoleAdmin)
}

// RequireRole lets callers with any of the roles through
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(PermissionConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg PermissionConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor.IsAnonymous() {
			handlePermissionDenied(c, cfg, roles, "No authenticated caller")
			return
		}
		if !hasAnyRole(actor, roles) {
			handlePermissionDenied(c, cfg, roles, "Caller lacks required role")
			return
		}
		c.Next()
	}
}

// HasRole reports whether the caller has one of the roles
func HasRole(c *gin.Context, roles ...identity.Role) bool {
	return hasAnyRole(GetActor(c), roles)
}

func hasAnyRole(actor identity.Actor, roles []identity.Role) bool {
	for _, r := range roles {
		if actor.Role == r {
			return true
		}
	}
	return false
}

// handlePermissionDenied aborts with 403
func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, required []identity.Role, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		actor := GetActor(c)
		roles := make([]string, len(required))
		for i, r := range required {
			roles[i] = string(r)
		}
		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", actor.UserID.String()),
			zap.String("role", string(actor.Role)),
			zap.Strings("required_roles", roles),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient permissions",
		GetRequestID(c),
	))
}
