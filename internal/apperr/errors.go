// Package apperr provides an HTTP-aware error type that route handlers return
// when a failure should reach the client with a specific status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a handler error that carries its own HTTP status code.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithError wraps an underlying error.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// New creates a new Error.
func New(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// NotFound creates a not found error
func NotFound(message string) *Error {
	if message == "" {
		message = "not found"
	}
	return New(http.StatusNotFound, message)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal creates an internal server error
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// As extracts *Error from err if present.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusCode returns the status carried by err, or 0 when err is not an
// *Error or carries no valid HTTP status.
func StatusCode(err error) int {
	appErr, ok := As(err)
	if !ok || appErr.StatusCode < 100 || appErr.StatusCode > 599 {
		return 0
	}
	return appErr.StatusCode
}
