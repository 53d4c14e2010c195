// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService on top of the shared
// ProjectStore. It validates input and logs, but leaves the collection and its
// change notifications to the store.
type ProjectService struct {
	store   ports.ProjectStore
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewProjectService creates a ProjectService. A nil logger is replaced with a
// discarding one; metrics may be nil.
func NewProjectService(store ports.ProjectStore, logger *slog.Logger, metrics *telemetry.Metrics) *ProjectService {
	return &ProjectService{
		store:   store,
		logger:  logging.OrDiscard(logger),
		metrics: metrics,
	}
}

// CreateProject validates the input and appends a new project. Listeners on
// the store have run by the time it returns.
func (s *ProjectService) CreateProject(ctx context.Context, in project.Input) (project.Project, error) {
	s.logger.InfoContext(ctx, "creating project", slog.String("title", in.Title))

	if err := in.Validate(); err != nil {
		s.recordViolations(ctx, in)
		s.logger.WarnContext(ctx, "rejected project input",
			slog.String("operation", "CreateProject"),
			slog.Any("error", err),
		)
		return project.Project{}, err
	}

	created := s.store.AddProject(ctx, in.Title, in.People, in.Description)

	s.logger.InfoContext(ctx, "project created",
		slog.String("project_id", created.ID),
		slog.Int("people", created.People),
	)
	return created, nil
}

// ListProjects returns every project in insertion order.
func (s *ProjectService) ListProjects(ctx context.Context) []project.Project {
	s.logger.DebugContext(ctx, "listing projects")
	return s.store.Projects()
}

// CheckField evaluates a single descriptor and counts each failed rule.
func (s *ProjectService) CheckField(ctx context.Context, d constraint.Descriptor) []constraint.Violation {
	violations := constraint.Check(d)
	for _, v := range violations {
		s.metrics.RecordValidationFailure(ctx, v.Rule)
	}
	return violations
}

func (s *ProjectService) recordViolations(ctx context.Context, in project.Input) {
	for _, d := range in.Descriptors() {
		for _, v := range constraint.Check(d) {
			s.metrics.RecordValidationFailure(ctx, v.Rule)
		}
	}
}
