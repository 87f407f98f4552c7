package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError and echoed as the "error_code" problem extension
const (
	CodeValidation    = "VALIDATION_FAILED"
	CodeNotFound      = "NOT_FOUND"
	CodeRateLimited   = "RATE_LIMIT_EXCEEDED"
	CodeDataNotLoaded = "DATA_NOT_LOADED"
)

// APIError is an error the HTTP layer can render directly: a status, a
// stable code for clients and an optional payload
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected query parameter
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a multi-field validation failure
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ErrDataNotLoaded is returned while the server has no dataset to analyse
var ErrDataNotLoaded = &APIError{
	StatusCode: http.StatusServiceUnavailable,
	ErrorCode:  CodeDataNotLoaded,
	Message:    "Intervention data is not loaded yet",
}

// ErrValidation rejects a single query parameter
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors rejects several query parameters at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeValidation,
		Message:    "Request validation failed",
		Details:    ValidationErrors{Errors: errs},
	}
}

// NotFoundError reports a missing resource, for example a machine id with
// no intervention in the current filter
func NotFoundError(kind, id string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  CodeNotFound,
		Message:    fmt.Sprintf("%s %s not found", kind, id),
		Details:    map[string]string{"kind": kind, "id": id},
	}
}
