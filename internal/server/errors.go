// Package server provides the HTTP REST API for the career analyzer.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a requested resource does not exist in the corpus
type ErrNotFound struct {
	Resource string
	Name     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
}

// ErrInsufficientData indicates the corpus cannot support the computation.
// Handlers usually degrade to a low-confidence answer instead of surfacing
// this; it reaches the client only when no degraded answer exists.
type ErrInsufficientData struct {
	Resource string
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("insufficient data for %s", e.Resource)
}

// ErrComputation indicates an internal computation failure
type ErrComputation struct {
	Op    string
	Cause error
}

func (e *ErrComputation) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ErrComputation) Unwrap() error {
	return e.Cause
}

// validationError converts a validator failure into the first field's
// ErrValidation.
func validationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return &ErrValidation{
			Field:   verrs[0].Field(),
			Message: fmt.Sprintf("failed '%s' validation", verrs[0].Tag()),
		}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
