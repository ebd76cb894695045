package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * 60

// CORSMiddleware echoes allowed origins with credentials so the web client
// can send its accessToken cookie. "*" in the list allows any origin, still
// echoed rather than sent literally since credentials are allowed.
// Preflights from other origins get 403.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	anyOrigin := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			anyOrigin = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		_, listed := allowed[origin]
		ok := origin != "" && (anyOrigin || listed)

		if origin != "" {
			ctx.Header("Vary", "Origin")
		}
		if ok {
			h := ctx.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id,ETag")
		}

		if ctx.Request.Method != http.MethodOptions || ctx.GetHeader("Access-Control-Request-Method") == "" {
			ctx.Next()
			return
		}

		if !ok {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}
		h := ctx.Writer.Header()
		h.Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Request-Id,If-None-Match")
		h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
		ctx.AbortWithStatus(http.StatusNoContent)
	}
}
