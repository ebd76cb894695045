package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// requestContext bounds store work by d while keeping the request's trace and identity.
func requestContext(ctx *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), d)
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, "forbidden", message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondConflict names every offending field under details.fields.
func RespondConflict(ctx *gin.Context, code, message string, fields []apperr.FieldIssue) {
	RespondError(ctx, http.StatusConflict, code, message, gin.H{"fields": fields})
}

// RespondAppError is the single translation from the apperr taxonomy to HTTP.
func RespondAppError(ctx *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err, "Something went wrong")
	}

	switch ae.Kind {
	case apperr.KindInvalid:
		RespondError(ctx, http.StatusBadRequest, ae.Code, ae.Message, nil)
	case apperr.KindConflict:
		RespondConflict(ctx, ae.Code, ae.Message, ae.Fields)
	case apperr.KindNotFound:
		RespondError(ctx, http.StatusNotFound, ae.Code, ae.Message, nil)
	case apperr.KindForbidden:
		RespondError(ctx, http.StatusForbidden, ae.Code, ae.Message, nil)
	case apperr.KindUnauthorized:
		RespondUnAuthorized(ctx, ae.Code, ae.Message)
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"err", err,
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
		)
		RespondInternal(ctx, ae.Message)
	}
}
