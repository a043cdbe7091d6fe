package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers. The transport layer maps these to
// HTTP status codes; core services never map or swallow them.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// ErrInvalidTransition is returned when a question status change is not
	// allowed by the transition table and no override is in effect.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientBalance is returned by charge and revoke operations that
	// would drive an account balance negative. State is left unchanged.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadyAssigned is returned when an expert tries to claim a question
	// that another expert already holds.
	ErrAlreadyAssigned = errors.New("question already assigned")

	// ErrMissingReason is returned by rejections, escalations, and overrides
	// invoked without a reason.
	ErrMissingReason = errors.New("reason is required")

	// ErrAlreadyResolved is returned when resolving a compliance flag twice.
	ErrAlreadyResolved = errors.New("flag already resolved")

	// ErrExternalService wraps opaque failures of external collaborators
	// (payment gateway, AI provider). Safe to retry with a new attempt.
	ErrExternalService = errors.New("external service failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
