package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// optionalQuery returns nil for an absent or blank query parameter.
func optionalQuery(ctx *gin.Context, keys ...string) *string {
	for _, k := range keys {
		v := strings.TrimSpace(ctx.Query(k))
		if v != "" {
			return &v
		}
	}
	return nil
}

// optionalBoolQuery answers 400 and reports false when the value is not a boolean.
func optionalBoolQuery(ctx *gin.Context, key string) (*bool, bool) {
	raw := optionalQuery(ctx, key)
	if raw == nil {
		return nil, true
	}

	b, err := strconv.ParseBool(*raw)
	if err != nil {
		RespondBadRequest(ctx, "Invalid query parameter", gin.H{
			"fields": []FieldError{{Field: key, Rule: "boolean", Message: "must be true or false"}},
		})
		return nil, false
	}
	return &b, true
}
