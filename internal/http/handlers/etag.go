package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag serialises payload once, tags it with a strong ETag and answers
// 304 when the client already holds that representation. Clients must revalidate.
func RespondJSONWithETag(ctx *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	etag := etagFor(body)

	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, "application/json; charset=utf-8", body)
}

func etagFor(body []byte) string {
	sum := sha256.Sum256(body)

	// 16 bytes is plenty to tell listing versions apart
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// ifNoneMatchMatches uses weak comparison, as If-None-Match requires.
func ifNoneMatchMatches(header, current string) bool {
	header = strings.TrimSpace(header)
	if header == "" || current == "" {
		return false
	}

	if header == "*" {
		return true
	}

	want := strings.TrimPrefix(current, "W/")
	for _, part := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(part), "W/") == want {
			return true
		}
	}

	return false
}
