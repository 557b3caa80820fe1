package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/practicum-admin-api/internal/service"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
	"github.com/noah-isme/practicum-admin-api/pkg/response"
)

// RequireAdmin lets through only bearers whose email is on the admin allowlist.
// It must run after JWT.
func RequireAdmin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !authService.IsAdmin(claims.Email) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
