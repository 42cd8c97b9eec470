package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-grid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	generateHandler := handlers.NewGenerateHandler(s.config, s.jobManager)
	settingsHandler := handlers.NewSettingsHandler(s.config)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Settings
		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)

		// Generation (long-running operations)
		r.Post("/generate", generateHandler.Start)
		r.Get("/generate/{jobId}", generateHandler.Status)
		r.Get("/generate/{jobId}/events", generateHandler.Events)
		r.Get("/generate/{jobId}/download", generateHandler.Download)
		r.Delete("/generate/{jobId}", generateHandler.Cancel)
	})
}
