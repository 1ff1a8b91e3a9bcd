package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
	apperrors "github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/errors"
)

// adminApplication is the unfiltered review payload: the full record
// including both status tracks, plus the owning user.
type adminApplication struct {
	ID                  uuid.UUID             `json:"id"`
	ClassYear           string                `json:"class_year"`
	GradYear            string                `json:"grad_year"`
	Major               string                `json:"major"`
	Referral            string                `json:"referral"`
	HackathonCount      int                   `json:"hackathon_count"`
	ShirtSize           string                `json:"shirt_size"`
	DietaryRestrictions string                `json:"dietary_restrictions,omitempty"`
	Website             string                `json:"website,omitempty"`
	LongAnswer1         string                `json:"longanswer_1"`
	LongAnswer2         string                `json:"longanswer_2"`
	StatusInternal      domain.InternalStatus `json:"status_internal"`
	StatusPublic        domain.InternalStatus `json:"status_public"`
	LastEmailStatus     string                `json:"last_email_status"`
	ResumeUploaded      bool                  `json:"resume_uploaded"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	User                domain.User           `json:"user"`
}

func toAdminApplication(awu *domain.ApplicationWithUser) adminApplication {
	return adminApplication{
		ID:                  awu.PublicID,
		ClassYear:           awu.ClassYear,
		GradYear:            awu.GradYear,
		Major:               awu.Major,
		Referral:            awu.Referral,
		HackathonCount:      awu.HackathonCount,
		ShirtSize:           awu.ShirtSize,
		DietaryRestrictions: awu.DietaryRestrictions,
		Website:             awu.Website,
		LongAnswer1:         awu.LongAnswer1,
		LongAnswer2:         awu.LongAnswer2,
		StatusInternal:      awu.StatusInternal,
		StatusPublic:        awu.StatusPublic,
		LastEmailStatus:     awu.LastEmailStatus,
		ResumeUploaded:      awu.ResumeUploaded,
		CreatedAt:           awu.CreatedAt,
		UpdatedAt:           awu.UpdatedAt,
		User:                awu.User,
	}
}

func applicationIDParam(c echo.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid application id").WithField("id", raw)
	}
	return id, nil
}

func (s *Server) handleListApplications(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	records, err := s.app.ListApplications(c.Request().Context(), principal)
	if err != nil {
		return mapServiceError(err)
	}

	applications := make([]adminApplication, 0, len(records))
	for i := range records {
		applications = append(applications, toAdminApplication(&records[i]))
	}

	response := map[string]any{
		"message":      "success",
		"applications": applications,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetApplication(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	id, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	record, err := s.app.GetApplication(c.Request().Context(), principal, id)
	if err != nil {
		return mapServiceError(err)
	}

	response := map[string]any{
		"message":     "success",
		"application": toAdminApplication(record),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type setStatusRequest struct {
	Status string `json:"status" form:"status"`
}

func (s *Server) handleSetStatus(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	id, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed request body").WithField("status", "this field is required")
	}

	record, err := s.app.SetStatus(c.Request().Context(), principal, id, domain.InternalStatus(req.Status))
	if err != nil {
		return mapServiceError(err)
	}

	response := map[string]any{
		"message":     "success",
		"application": toAdminApplication(record),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleResumeURL(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	id, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	url, err := s.app.ResumeURL(c.Request().Context(), principal, id)
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
