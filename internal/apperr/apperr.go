package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindInvalid      Kind = "invalid"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// FieldIssue names one offending input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Conflict builds a uniqueness error naming every field at fault.
func Conflict(message string, fields ...string) *Error {
	issues := make([]FieldIssue, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, FieldIssue{Field: f, Message: f + " already exists"})
	}
	return &Error{Kind: KindConflict, Code: "conflict", Message: message, Fields: issues}
}

func Invalid(code, message string) *Error {
	return New(KindInvalid, code, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, "not_found", message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "forbidden", message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func Internal(err error, message string) *Error {
	return Wrap(err, KindInternal, "internal_error", message)
}

// KindOf reports the kind carried by err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// ConflictFields returns the field names carried by a conflict error.
func ConflictFields(err error) []string {
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindConflict {
		return nil
	}
	out := make([]string, 0, len(ae.Fields))
	for _, f := range ae.Fields {
		out = append(out, f.Field)
	}
	return out
}
