package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeNotVerified  ErrorType = "not_verified"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeBadRequest   ErrorType = "bad_request"
	ErrorTypeConnectivity ErrorType = "connectivity"
	ErrorTypeServer       ErrorType = "server"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Internal   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a client-detected validation error. It is
// raised before any network call is made.
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: 0,
	}
}

// NewUnauthorizedError creates a new unauthorized error (HTTP 401)
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotVerifiedError creates the error for a login rejected because the
// account's email has not been verified yet (HTTP 403 with a matching
// backend message)
func NewNotVerifiedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotVerified,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewForbiddenError creates a new forbidden error (HTTP 403)
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError creates a new not found error (HTTP 404)
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a new conflict error (HTTP 409)
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewBadRequestError creates a new bad request error (HTTP 400)
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewConnectivityError creates the error used when no HTTP response was
// received at all (DNS failure, refused connection, timeout)
func NewConnectivityError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeConnectivity,
		Message:    message,
		StatusCode: 0,
		Internal:   internal,
	}
}

// NewServerError creates the generic fallback error for 5xx and any
// unclassified status
func NewServerError(message string, statusCode int, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeServer,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == t
	}
	return false
}
