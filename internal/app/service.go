package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/metrics"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

const confirmationSendTimeout = 30 * time.Second

// Service implements the application lifecycle: one application per user,
// admin-gated status changes, resume storage mediation, and the submission
// confirmation email.
type Service struct {
	apps     domain.ApplicationRepository
	users    domain.UserRepository
	blobs    domain.BlobStore
	notifier domain.Notifier
	validate *validator.Validate

	resumeURLTTL time.Duration

	// pending tracks in-flight confirmation sends so shutdown can wait for them.
	pending sync.WaitGroup
}

func NewService(apps domain.ApplicationRepository, users domain.UserRepository, blobs domain.BlobStore, notifier domain.Notifier, resumeURLTTL time.Duration) *Service {
	return &Service{
		apps:         apps,
		users:        users,
		blobs:        blobs,
		notifier:     notifier,
		validate:     validator.New(),
		resumeURLTTL: resumeURLTTL,
	}
}

// GetOwnApplication returns the caller's application projected onto the
// public view. The projection's status reflects status_public, never
// status_internal.
func (s *Service) GetOwnApplication(ctx context.Context, principal domain.Principal) (*domain.PublicApplication, error) {
	app, err := s.apps.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return app.Public(), nil
}

// GetApplication returns the full record with its owner. Admin only.
func (s *Service) GetApplication(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (*domain.ApplicationWithUser, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}
	return s.apps.GetWithUserByPublicID(ctx, publicID)
}

// ListApplications returns all applications with their owners. Admin only.
func (s *Service) ListApplications(ctx context.Context, principal domain.Principal) ([]domain.ApplicationWithUser, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}
	return s.apps.ListWithUsers(ctx)
}

// Submit creates the caller's application. The resume, if provided, is
// uploaded before the record is persisted; an upload failure aborts the
// whole operation. If persistence fails after a successful upload, the
// orphaned blob is removed best-effort. The confirmation email is sent
// asynchronously and never affects the outcome.
func (s *Service) Submit(ctx context.Context, principal domain.Principal, req SubmitRequest, resume *ResumeUpload) error {
	if err := asValidationError(s.validate.Struct(req)); err != nil {
		return err
	}

	// Fast-path duplicate check. The applications.user_id uniqueness
	// constraint closes the remaining check-then-act race in Create.
	if _, err := s.apps.GetByUserID(ctx, principal.ID); err == nil {
		return domain.ErrApplicationExists
	} else if !errors.Is(err, domain.ErrNoApplication) {
		return err
	}

	app := &domain.Application{
		PublicID:            uuid.New(),
		UserID:              principal.ID,
		ClassYear:           req.ClassYear,
		GradYear:            req.GradYear,
		Major:               req.Major,
		Referral:            req.Referral,
		HackathonCount:      req.HackathonCount,
		ShirtSize:           req.ShirtSize,
		DietaryRestrictions: req.DietaryRestrictions,
		Website:             req.Website,
		LongAnswer1:         req.LongAnswer1,
		LongAnswer2:         req.LongAnswer2,
		StatusInternal:      domain.StatusPending,
		StatusPublic:        domain.StatusPending,
		LastEmailStatus:     domain.EmailStatusNone,
		ResumeUploaded:      resume != nil,
	}

	if resume != nil {
		if err := s.blobs.Put(ctx, app.ResumeKey(), resume.Reader, resume.Size, resume.ContentType); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		if resume != nil {
			if rmErr := s.blobs.Remove(ctx, app.ResumeKey()); rmErr != nil {
				slog.Error("Failed to remove orphaned resume after create failure",
					"key", app.ResumeKey(), "error", rmErr)
			}
		}
		return err
	}

	metrics.ApplicationsSubmitted.Inc()
	if resume != nil {
		metrics.ResumeUploads.Inc()
	}

	s.sendConfirmation(principal.ID, created.PublicID)
	return nil
}

// sendConfirmation fires the confirmation email without blocking the
// request. The outcome is logged and counted; it is never written back to
// last_email_status.
func (s *Service) sendConfirmation(userID, applicationID uuid.UUID) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), confirmationSendTimeout)
		defer cancel()

		user, _, err := s.users.GetByID(ctx, userID)
		if err != nil {
			slog.Error("Failed to load user for confirmation email", "user_id", userID, "error", err)
			metrics.ConfirmationEmails.WithLabelValues("error").Inc()
			return
		}

		if err := s.notifier.SendApplicationConfirmation(ctx, user); err != nil {
			slog.Error("Failed to send confirmation email",
				"user_id", userID, "application_id", applicationID, "error", err)
			metrics.ConfirmationEmails.WithLabelValues("error").Inc()
			return
		}
		metrics.ConfirmationEmails.WithLabelValues("sent").Inc()
	}()
}

// Update applies a partial update to the caller's application. A supplied
// resume is uploaded first; if the upload fails nothing is committed,
// including the non-resume fields.
func (s *Service) Update(ctx context.Context, principal domain.Principal, req UpdateRequest, resume *ResumeUpload) (*domain.PublicApplication, error) {
	if err := asValidationError(s.validate.Struct(req)); err != nil {
		return nil, err
	}

	existing, err := s.apps.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	patch := req.patch()
	if resume != nil {
		if err := s.blobs.Put(ctx, existing.ResumeKey(), resume.Reader, resume.Size, resume.ContentType); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		uploaded := true
		patch.ResumeUploaded = &uploaded
	}

	if patch.Empty() {
		return existing.Public(), nil
	}

	updated, err := s.apps.UpdateFields(ctx, principal.ID, patch)
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsUpdated.Inc()
	if resume != nil {
		metrics.ResumeUploads.Inc()
	}
	return updated.Public(), nil
}

// SetStatus moves an application's internal status to accepted, waitlisted,
// or rejected. Admin only. status_public is deliberately untouched: internal
// decisioning and the public reveal are decoupled, and no operation here
// propagates one to the other.
func (s *Service) SetStatus(ctx context.Context, principal domain.Principal, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}
	if !status.IsAdminSettable() {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.apps.SetInternalStatus(ctx, publicID, status)
	if err != nil {
		return nil, err
	}

	metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	return updated, nil
}

// OwnResumeURL returns a presigned download URL for the caller's resume.
func (s *Service) OwnResumeURL(ctx context.Context, principal domain.Principal) (string, error) {
	app, err := s.apps.GetByUserID(ctx, principal.ID)
	if err != nil {
		return "", err
	}
	return s.presign(ctx, app)
}

// ResumeURL returns a presigned download URL for any application's resume.
// Admin only.
func (s *Service) ResumeURL(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (string, error) {
	if !principal.IsAdmin() {
		return "", domain.ErrNotAdmin
	}
	app, err := s.apps.GetByPublicID(ctx, publicID)
	if err != nil {
		return "", err
	}
	return s.presign(ctx, app)
}

func (s *Service) presign(ctx context.Context, app *domain.Application) (string, error) {
	if !app.ResumeUploaded {
		return "", domain.ErrNoResume
	}
	url, err := s.blobs.PresignedGetURL(ctx, app.ResumeKey(), s.resumeURLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return url, nil
}

// Stop waits for in-flight confirmation sends to finish.
func (s *Service) Stop() {
	s.pending.Wait()
}
