package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("credits", "must be positive")

	want := "validation: credits: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError must unwrap to ErrValidation")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "subject", Message: "required"},
		{Field: "text", Message: "required"},
	})

	want := "validation: 2 errors"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSentinels_WrappedMatching(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("ledger.Charge: %w", ErrInsufficientBalance)
	if !errors.Is(wrapped, ErrInsufficientBalance) {
		t.Error("wrapped ErrInsufficientBalance must match via errors.Is")
	}

	wrapped = fmt.Errorf("question %s: %w", "id", ErrInvalidTransition)
	if !errors.Is(wrapped, ErrInvalidTransition) {
		t.Error("wrapped ErrInvalidTransition must match via errors.Is")
	}
}

func TestSentinels_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrUnauthorized, ErrForbidden,
		ErrInvalidTransition, ErrInsufficientBalance, ErrAlreadyAssigned,
		ErrMissingReason, ErrAlreadyResolved, ErrExternalService,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v must not match %v", a, b)
			}
		}
	}
}
