// Package handlers holds the HTTP endpoints of the projectboard API. Handlers
// decode and encode wire shapes from package dto and delegate everything else
// to the ports.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/projectboard/internal/adapters/http/dto"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

// ProjectHandler serves the project collection and single-field checks.
type ProjectHandler struct {
	svc ports.ProjectService
}

// NewProjectHandler creates a ProjectHandler backed by the given service port.
func NewProjectHandler(svc ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects serves GET /api/v1/projects with the collection in insertion
// order.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.svc.ListProjects(r.Context())
	writeJSON(w, r, http.StatusOK, dto.ToProjectListResponse(projects))
}

// CreateProject serves POST /api/v1/projects. Field failures come back as a
// 400 problem with one error per field.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	created, err := h.svc.CreateProject(ctx, req.ToInput())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	logging.FromContext(ctx).DebugContext(ctx, "project accepted",
		slog.String("project_id", created.ID),
		slog.Int("people", created.People),
	)
	writeJSON(w, r, http.StatusCreated, dto.ToProjectResponse(&created))
}

// Validate serves POST /api/v1/validate. A value that breaks rules is still
// a 200 with valid=false; only an unreadable request is a 400.
func (h *ProjectHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	violations := h.svc.CheckField(r.Context(), req.Descriptor())
	writeJSON(w, r, http.StatusOK, dto.ToValidateResponse(violations))
}
