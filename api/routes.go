package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the catalog API. Reads are public; every mutating
// endpoint sits behind the admin token check.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(handlers.projectHandler.images.Dir())))
	r.Method(http.MethodGet, "/uploads/*", uploads)

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/api/projects", handlers.projectHandler.listProjects())
		r.Get("/api/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/api/stats", handlers.statsHandler.getStats())
		r.Get("/api/health", handlers.healthHandler.health())

		r.Post("/api/admin/verify", handlers.adminHandler.verify())
		r.Post("/api/admin/login", handlers.adminHandler.login())

		r.Group(func(r chi.Router) {
			r.Use(auth.requireAdmin)

			r.Post("/api/projects", handlers.projectHandler.createProject())
			r.Put("/api/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/api/projects/{projectID}", handlers.projectHandler.deleteProject())
		})
	})
}
