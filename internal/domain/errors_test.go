package domain

import (
	"errors"
	"testing"
)

func TestValidationError_Error_SortedFields(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{
		"people": "must be at most 5",
		"title":  "is required",
	}}

	want := "validation error: people: must be at most 5; title: is required"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	var err error = &ValidationError{Fields: map[string]string{"title": "is required"}}

	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("errors.Is(err, ErrUnavailable) = true, want false")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if verr.Fields["title"] != "is required" {
		t.Errorf("Fields[title] = %q, want %q", verr.Fields["title"], "is required")
	}
}

func TestValidationError_NoFields(t *testing.T) {
	t.Parallel()

	err := &ValidationError{}
	if got := err.Error(); got != "validation error" {
		t.Errorf("Error() = %q, want %q", got, "validation error")
	}
}
