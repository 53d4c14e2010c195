package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Sentinels for errors.Is. ErrValidation means the caller sent bad input;
// ErrUnavailable means a dependency could not serve the request.
var (
	ErrValidation  = errors.New("validation error")
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError maps field names to what is wrong with them. It matches
// ErrValidation under errors.Is; use errors.As to reach Fields.
type ValidationError struct {
	Fields map[string]string
}

// Error lists fields alphabetically, e.g.
// "validation error: people: must be at most 5; title: is required".
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
