package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON answers 415 when a write carries a body that is not JSON.
// Body-less actions (verify, assign, logout) pass through.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBody(c.Request) || isJSON(c.ContentType()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error": gin.H{
				"code":      "unsupported_media_type",
				"message":   "Content-Type must be application/json",
				"requestId": c.GetString(CtxRequestID),
			},
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

// isJSON accepts application/json and structured suffixes such as application/merge-patch+json.
func isJSON(mediaType string) bool {
	mediaType = strings.ToLower(mediaType)
	return mediaType == gin.MIMEJSON || strings.HasSuffix(mediaType, "+json")
}
