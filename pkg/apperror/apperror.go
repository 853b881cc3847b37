// Package apperror carries machine-readable failure kinds across the service and
// transport layers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of failure. The value is stable and is sent to clients.
type Kind string

const (
	KindInvalidState      Kind = "INVALID_STATE"
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindOracleUnavailable Kind = "ORACLE_UNAVAILABLE"
	KindValidationFailed  Kind = "VALIDATION_FAILED"
	KindBusy              Kind = "BUSY"

	KindUnauthorized Kind = "UNAUTHORIZED"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error is the structured error returned by services.
type Error struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the client may resend the same request unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindOracleUnavailable || e.Kind == KindBusy
}

// HTTPStatus maps the kind onto a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindOracleUnavailable:
		return http.StatusServiceUnavailable
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindBusy:
		return http.StatusLocked
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WithDetail returns a copy of e carrying an extra detail entry.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	cp := *e
	cp.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	appErr, ok := From(err)
	return ok && appErr.Kind == kind
}

func InvalidState(format string, args ...interface{}) *Error {
	return Newf(KindInvalidState, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return Newf(KindForbidden, format, args...)
}

func ValidationFailed(format string, args ...interface{}) *Error {
	return Newf(KindValidationFailed, format, args...)
}

func Busy(format string, args ...interface{}) *Error {
	return Newf(KindBusy, format, args...)
}

func OracleUnavailable(err error) *Error {
	return Wrap(KindOracleUnavailable, err, "extraction service unavailable, retry the same turn")
}
