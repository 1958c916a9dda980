// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. Every API route runs
// through the responder, so each request ends with exactly one envelope.
func NewRouter(
	responder *handlers.Responder,
	projectHandler *handlers.ProjectHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	notFound := responder.Wrap(handlers.RouteNotFound)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	// Health endpoints (outside /api prefix).
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", responder.Wrap(handlers.Welcome))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", responder.Wrap(projectHandler.ListProjects))
			r.Post("/", responder.Wrap(projectHandler.CreateProject))
			r.Get("/{id}", responder.Wrap(projectHandler.GetProject))
			r.Put("/{id}", responder.Wrap(projectHandler.UpdateProject))
			r.Delete("/{id}", responder.Wrap(projectHandler.DeleteProject))
		})
	})

	return r
}
