// Package http is the inbound HTTP adapter: routing, and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/projectboard/internal/adapters/http/dto"
	"github.com/jsamuelsen11/projectboard/internal/adapters/http/handlers"
)

// NewRouter registers every route on a chi mux. Middleware wraps all routes,
// unmatched ones included, in the order given. Unknown paths and methods get
// problem documents like every other error.
func NewRouter(
	projectHandler *handlers.ProjectHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusProblem(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusProblem(w, r, http.StatusMethodNotAllowed)
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/events", eventsHandler.Stream)
		r.Post("/validate", projectHandler.Validate)
	})

	return r
}
