package ports

import (
	"context"

	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// ProjectService defines the service port for project operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type ProjectService interface {
	// CreateProject validates the input and appends a new project to the
	// store, returning the created record.
	// Returns domain.ErrValidation if the input fails validation.
	CreateProject(ctx context.Context, in project.Input) (project.Project, error)

	// ListProjects returns a snapshot of all projects in insertion order.
	ListProjects(ctx context.Context) []project.Project

	// CheckField evaluates a single constraint descriptor and returns the
	// failed rules, or nil when the value is valid.
	CheckField(ctx context.Context, d constraint.Descriptor) []constraint.Violation
}
