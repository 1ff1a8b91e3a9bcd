package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/app"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
	apperrors "github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/errors"
)

// mapServiceError translates application-layer errors into structured HTTP
// errors with the stable message codes clients switch on.
func mapServiceError(err error) error {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		structured := apperrors.ValidationError("field validation failed")
		for field, message := range verr.Fields {
			structured = structured.WithField(field, message)
		}
		return structured
	case errors.Is(err, domain.ErrNoApplication):
		return apperrors.NotFoundError("no_application", "no application on file")
	case errors.Is(err, domain.ErrNoResume):
		return apperrors.NotFoundError("no_resume", "no resume on file")
	case errors.Is(err, domain.ErrApplicationExists):
		return apperrors.ConflictError("application_already_exists", "an application already exists for this user")
	case errors.Is(err, domain.ErrNotAdmin):
		return apperrors.ForbiddenError("admin role required")
	case errors.Is(err, domain.ErrInvalidStatus):
		return apperrors.ValidationError("invalid status").
			WithField("status", "must be one of: accepted, waitlisted, rejected")
	case errors.Is(err, domain.ErrStorage):
		return apperrors.ExternalError("resume storage unavailable", err)
	default:
		return apperrors.InternalError("operation failed", err)
	}
}

func (s *Server) handleGetOwnApplication(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	application, err := s.app.GetOwnApplication(c.Request().Context(), principal)
	if err != nil {
		return mapServiceError(err)
	}

	response := map[string]any{
		"message":     "success",
		"application": application,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSubmit(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	req, resume, closeResume, err := s.bindSubmitRequest(c)
	if err != nil {
		return mapServiceError(err)
	}
	if closeResume != nil {
		defer closeResume()
	}

	if err := s.app.Submit(c.Request().Context(), principal, req, resume); err != nil {
		return mapServiceError(err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"message": "success"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdate(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	req, resume, closeResume, err := s.bindUpdateRequest(c)
	if err != nil {
		return mapServiceError(err)
	}
	if closeResume != nil {
		defer closeResume()
	}

	application, err := s.app.Update(c.Request().Context(), principal, req, resume)
	if err != nil {
		// PUT against a missing application keeps its historical message code.
		if errors.Is(err, domain.ErrNoApplication) {
			return apperrors.NotFoundError("application_does_not_exist", "no application on file")
		}
		return mapServiceError(err)
	}

	response := map[string]any{
		"message":     "success",
		"application": application,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleOwnResumeURL(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	url, err := s.app.OwnResumeURL(c.Request().Context(), principal)
	if err != nil {
		return mapServiceError(err)
	}

	response := map[string]any{
		"message":    "success",
		"url":        url,
		"expires_in": s.config.ResumeURLTTL.Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
