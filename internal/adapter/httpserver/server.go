package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/app"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/config"
)

// appService is the application-layer surface the HTTP adapter consumes.
type appService interface {
	GetOwnApplication(ctx context.Context, principal domain.Principal) (*domain.PublicApplication, error)
	GetApplication(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (*domain.ApplicationWithUser, error)
	ListApplications(ctx context.Context, principal domain.Principal) ([]domain.ApplicationWithUser, error)
	Submit(ctx context.Context, principal domain.Principal, req app.SubmitRequest, resume *app.ResumeUpload) error
	Update(ctx context.Context, principal domain.Principal, req app.UpdateRequest, resume *app.ResumeUpload) (*domain.PublicApplication, error)
	SetStatus(ctx context.Context, principal domain.Principal, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error)
	OwnResumeURL(ctx context.Context, principal domain.Principal) (string, error)
	ResumeURL(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (string, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app   appService
	users domain.UserRepository

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, users domain.UserRepository, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(ErrorHandlingMiddleware())

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		users:        users,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
