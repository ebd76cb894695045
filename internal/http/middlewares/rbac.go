package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// RequireRole must run after RequireAuth. A missing identity is 401; a role
// outside the allowed set is 403.
func (m *AuthMiddleware) RequireRole(allowed ...user.Role) gin.HandlerFunc {
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		names = append(names, r.String())
	}
	msg := strings.Join(names, " or ") + " role required"

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if !auth.RoleAllowed(role, allowed...) {
			reqID, _ := c.Get(CtxRequestID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":      "forbidden",
					"message":   msg,
					"requestId": reqID,
				},
			})
			return
		}
		c.Next()
	}
}
