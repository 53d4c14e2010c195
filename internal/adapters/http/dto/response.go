// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// ProjectResponse represents a single project in HTTP responses.
type ProjectResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
	Completed   bool   `json:"completed"`
}

// ProjectListResponse represents the collection in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// ToProjectResponse converts a domain Project to an HTTP response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		People:      p.People,
		Completed:   p.Completed,
	}
}

// ToProjectListResponse converts projects to a list DTO, preserving order.
// Projects is never nil so an empty collection encodes as [].
func ToProjectListResponse(projects []project.Project) ProjectListResponse {
	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	return ProjectListResponse{
		Projects: items,
		Count:    len(items),
	}
}

// ViolationResponse is one failed rule.
type ViolationResponse struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidateResponse is the result of checking a single value.
type ValidateResponse struct {
	Valid      bool                `json:"valid"`
	Violations []ViolationResponse `json:"violations"`
}

// ToValidateResponse converts violations to a response DTO.
func ToValidateResponse(violations []constraint.Violation) ValidateResponse {
	items := make([]ViolationResponse, len(violations))
	for i, v := range violations {
		items[i] = ViolationResponse{Rule: v.Rule, Message: v.Message}
	}
	return ValidateResponse{
		Valid:      len(items) == 0,
		Violations: items,
	}
}

// Health statuses reported by the probe endpoints.
const (
	HealthOK       = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
)

// HealthResponse is the body of both probes. Checks maps each registered
// component to "ok" or its failure text and is omitted by liveness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ToReadinessResponse folds per-component results into a response and
// reports whether every component passed. No components means ready.
func ToReadinessResponse(results map[string]error) (HealthResponse, bool) {
	resp := HealthResponse{Status: HealthReady, Checks: make(map[string]string, len(results))}
	ready := true
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
			ready = false
			continue
		}
		resp.Checks[name] = HealthOK
	}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}
