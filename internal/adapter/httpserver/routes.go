package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/metrics"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	submitLimiter := newRateLimiter(s.config.SubmitRatePerSecond, s.config.SubmitRateBurst)

	// Applicant routes
	s.echo.GET("/application/self", s.handleGetOwnApplication, s.requireAuth)
	s.echo.GET("/application/self/resume", s.handleOwnResumeURL, s.requireAuth)
	s.echo.POST("/application", s.handleSubmit, s.requireAuth, submitLimiter)
	s.echo.PUT("/application", s.handleUpdate, s.requireAuth, submitLimiter)

	// Admin routes
	s.echo.GET("/applications", s.handleListApplications, s.requireAuth, s.requireAdmin)
	s.echo.GET("/application/:id", s.handleGetApplication, s.requireAuth, s.requireAdmin)
	s.echo.GET("/application/:id/resume", s.handleResumeURL, s.requireAuth, s.requireAdmin)
	s.echo.POST("/application/:id/status", s.handleSetStatus, s.requireAuth, s.requireAdmin)
}
