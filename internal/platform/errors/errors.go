// Package errors provides structured errors that carry their HTTP status and log context.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for logging, metrics and status mapping.
type ErrorType string

const (
	// TypeValidation indicates a malformed request (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a missing resource (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeUnavailable indicates the server is at capacity (HTTP 503)
	TypeUnavailable ErrorType = "unavailable"
	// TypeInternal indicates a server-side failure (HTTP 500)
	TypeInternal ErrorType = "internal"
)

type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

func ValidationError(message string, cause error) *Error {
	return newError(TypeValidation, message, cause)
}

func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

func UnavailableError(message string) *Error {
	return newError(TypeUnavailable, message, nil)
}

func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

// WithContext adds a log field to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON body sent for errors on JSON endpoints.
type ErrorResponse struct {
	Error string    `json:"error"`
	Type  ErrorType `json:"type"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type}
}

// AsStructuredError returns err as an *Error, wrapping unknown errors as internal.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
