package domain

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing product or order. It is recoverable at the
// request boundary and maps to a 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule violation found in a single pass so the
// caller sees the full set at once. Maps to a 400.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, ", ")
}

func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}
