package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission identity.Permission) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permission)
}

// RequireAnyPermission creates middleware that requires any of the specified permissions
func RequireAnyPermission(permissions ...identity.Permission) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig checks the caller's role against the
// capability table. The role comes from the token; role changes revoke
// the user's tokens, so it cannot be stale.
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...identity.Permission) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		role := identity.Role(claims.Role)
		for _, perm := range permissions {
			if identity.HasPermission(role, perm) {
				c.Next()
				return
			}
		}

		log.Warn("Permission denied",
			zap.String("user_id", claims.UserID),
			zap.String("role", claims.Role),
			zap.Any("required_any", permissions),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "You do not have permission to perform this action", GetRequestID(c)))
	}
}

// HasPermission reports whether the authenticated caller holds permission
func HasPermission(c *gin.Context, permission identity.Permission) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return identity.HasPermission(identity.Role(claims.Role), permission)
}
