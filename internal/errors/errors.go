package errors

import (
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories. Every failure the service
// surfaces carries exactly one kind, and each kind maps to one HTTP status.
type Kind string

const (
	KindBadRequest           Kind = "bad_request"
	KindUnauthorized         Kind = "unauthorized"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindUnprocessable        Kind = "unprocessable"
	KindInternal             Kind = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Kind       Kind        `json:"kind"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"status_code"`
	Cause      error       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewBadRequest creates a 400 error
func NewBadRequest(message string) *AppError {
	return &AppError{
		Kind:       KindBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewUnauthorized creates a 401 error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Kind:       KindUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbidden creates a 403 error
func NewForbidden(message string) *AppError {
	return &AppError{
		Kind:       KindForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFound creates a 404 error
func NewNotFound(message string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnsupportedMediaType creates a 415 error
func NewUnsupportedMediaType(message string) *AppError {
	return &AppError{
		Kind:       KindUnsupportedMediaType,
		Message:    message,
		StatusCode: http.StatusUnsupportedMediaType,
	}
}

// NewUnprocessable creates a 422 error
func NewUnprocessable(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindUnprocessable,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewInternal creates a 500 error
func NewInternal(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromStatus classifies an upstream HTTP status into an AppError. Statuses
// outside the taxonomy (including 0 for transport failures) collapse to
// internal/500.
func FromStatus(status int, message string, cause error) *AppError {
	var kind Kind
	switch status {
	case http.StatusBadRequest:
		kind = KindBadRequest
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusForbidden:
		kind = KindForbidden
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusUnsupportedMediaType:
		kind = KindUnsupportedMediaType
	case http.StatusUnprocessableEntity:
		kind = KindUnprocessable
	default:
		kind = KindInternal
		status = http.StatusInternalServerError
	}
	return &AppError{
		Kind:       kind,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// From returns err as an AppError, wrapping unclassified errors into the
// terminal internal/500 shape so the boundary never exposes raw error text.
func From(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal("Internal Server Error", err)
}

// IsKind checks if the error is of a specific kind
func IsKind(err error, kind Kind) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind == kind
	}
	return false
}

// StatusCode extracts the HTTP status code from an error
func StatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
