package dto

import (
	"bytes"
	"encoding/json"

	"github.com/jsamuelsen11/projectboard/internal/domain"
	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// CreateProjectRequest represents the JSON body for adding a project. Field
// rules are enforced by the service, not here.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
}

// ToInput converts the request to the domain input type.
func (r *CreateProjectRequest) ToInput() project.Input {
	return project.Input{
		Title:       r.Title,
		Description: r.Description,
		People:      r.People,
	}
}

// ValidateRequest represents the JSON body for checking a single value.
// Value is a JSON string (text) or number; absent or null means empty text.
type ValidateRequest struct {
	Value     json.RawMessage `json:"value"`
	Required  bool            `json:"required"`
	MinLength *int            `json:"min_length,omitempty"`
	MaxLength *int            `json:"max_length,omitempty"`
	Min       *float64        `json:"min,omitempty"`
	Max       *float64        `json:"max,omitempty"`
}

// Validate checks that value is a string or a number and that the length
// bounds are not negative. Returns a *domain.ValidationError on failure.
func (r *ValidateRequest) Validate() error {
	fields := make(map[string]string)

	if _, err := r.value(); err != nil {
		fields["value"] = "must be a string or a number"
	}
	if r.MinLength != nil && *r.MinLength < 0 {
		fields["min_length"] = "must not be negative"
	}
	if r.MaxLength != nil && *r.MaxLength < 0 {
		fields["max_length"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Descriptor builds the constraint descriptor. Call Validate first.
func (r *ValidateRequest) Descriptor() constraint.Descriptor {
	v, _ := r.value()
	return constraint.Descriptor{
		Value:     v,
		Required:  r.Required,
		MinLength: r.MinLength,
		MaxLength: r.MaxLength,
		Min:       r.Min,
		Max:       r.Max,
	}
}

var errValueType = &domain.ValidationError{Fields: map[string]string{"value": "must be a string or a number"}}

func (r *ValidateRequest) value() (constraint.Value, error) {
	raw := bytes.TrimSpace(r.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return constraint.Text(""), nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return constraint.Value{}, errValueType
		}
		return constraint.Text(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return constraint.Value{}, errValueType
		}
		return constraint.Number(n), nil
	default:
		return constraint.Value{}, errValueType
	}
}
