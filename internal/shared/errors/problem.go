// Package errors provides the uniform JSON error envelope for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// ErrorMessage is a human-readable explanation of this occurrence.
	ErrorMessage string `json:"errorMessage"`
	// HTTPStatus is the status reason in upper snake case, e.g. NOT_FOUND.
	HTTPStatus string `json:"httpStatus"`
	// Status is the numeric HTTP status code.
	Status int `json:"status"`
	// Errors holds field-level validation messages keyed by JSON field name.
	Errors map[string]string `json:"errors,omitempty"`
}

// New builds an envelope for status with the given message.
func New(status int, message string) ErrorResponse {
	return ErrorResponse{
		ErrorMessage: message,
		HTTPStatus:   statusName(status),
		Status:       status,
	}
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.HTTPStatus, e.ErrorMessage)
}

// WithMessage returns a copy with the given message.
func (e ErrorResponse) WithMessage(message string) ErrorResponse {
	e.ErrorMessage = message
	return e
}

// WithFieldError returns a copy with an additional field-level message.
func (e ErrorResponse) WithFieldError(field, message string) ErrorResponse {
	fields := make(map[string]string, len(e.Errors)+1)
	for k, v := range e.Errors {
		fields[k] = v
	}
	fields[field] = message
	e.Errors = fields
	return e
}

// Pre-defined templates for common scenarios.
var (
	ErrBadRequest = New(http.StatusBadRequest, "Bad request")
	ErrValidation = New(http.StatusBadRequest, "Validation failed")
	ErrNotFound   = New(http.StatusNotFound, "Resource not found")
	ErrConflict   = New(http.StatusConflict, "Conflict")
	ErrInternal   = New(http.StatusInternalServerError, "Internal server error")
)

// NewValidationError creates a validation error with field-level details.
func NewValidationError(fieldErrors map[string]string) ErrorResponse {
	problem := ErrValidation
	for field, msg := range fieldErrors {
		problem = problem.WithFieldError(field, msg)
	}
	return problem
}

func statusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("STATUS_%d", status)
	}
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "'", "")
	return strings.ToUpper(strings.Join(strings.Fields(text), "_"))
}
