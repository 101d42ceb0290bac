package server

import (
	"github.com/feedlens/feedlens/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// Classification endpoints
	s.router.Post("/v1/classify/restore", handlers.RestoreClassifyHandler)
	s.router.Post("/v1/classify/search", handlers.SearchClassifyHandler)
}
