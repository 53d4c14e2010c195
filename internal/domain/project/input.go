package project

import (
	"strings"

	"github.com/jsamuelsen11/projectboard/internal/domain"
	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
)

// Field limits for submitted projects.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MinPeople            = 1
	MaxPeople            = 5
)

// Input holds the raw fields submitted for a new project.
type Input struct {
	Title       string
	Description string
	People      int
}

// Descriptors returns the constraint descriptor for each submitted field,
// keyed by field name.
func (in Input) Descriptors() map[string]constraint.Descriptor {
	return map[string]constraint.Descriptor{
		"title": {
			Value:     constraint.Text(in.Title),
			Required:  true,
			MaxLength: constraint.Ptr(MaxTitleLength),
		},
		"description": {
			Value:     constraint.Text(in.Description),
			MaxLength: constraint.Ptr(MaxDescriptionLength),
		},
		"people": {
			Value:    constraint.Number(float64(in.People)),
			Required: true,
			Min:      constraint.Ptr(float64(MinPeople)),
			Max:      constraint.Ptr(float64(MaxPeople)),
		},
	}
}

// Validate checks every field against its descriptor.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (in Input) Validate() error {
	fields := make(map[string]string)

	for name, d := range in.Descriptors() {
		violations := constraint.Check(d)
		if len(violations) == 0 {
			continue
		}
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.Message
		}
		fields[name] = strings.Join(msgs, ", ")
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
