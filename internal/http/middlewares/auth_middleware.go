package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// AccessTokenCookie carries the web client's token.
const AccessTokenCookie = "accessToken"

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth accepts a Bearer header (mobile) or the access token cookie (web);
// the header wins when both are present.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := tokenFromRequest(c)
		if !ok {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		id := actorctx.Identity{
			UserID: claims.UserID(),
			Name:   claims.Name,
			Role:   claims.Role,
			Client: string(claims.Client),
		}

		// Stash useful bits of identity on the context
		c.Set(CtxUserID, id.UserID)
		c.Set(CtxName, id.Name)
		c.Set(CtxRole, id.Role)
		c.Set(CtxClient, id.Client)

		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		if !strings.HasPrefix(h, "Bearer ") {
			return "", false
		}
		raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
		return raw, raw != ""
	}

	raw, err := c.Cookie(AccessTokenCookie)
	if err != nil || raw == "" {
		return "", false
	}
	return raw, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	reqID, _ := c.Get(CtxRequestID)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":      "unauthorized",
			"message":   msg,
			"requestId": reqID,
		},
	})
}

// Optional helpers so handlers don’t need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (user.Role, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(user.Role)
	return role, ok
}

// IdentityFromContext reads the caller set by RequireAuth.
func IdentityFromContext(c *gin.Context) (actorctx.Identity, bool) {
	return actorctx.IdentityFrom(c.Request.Context())
}
