package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

// --- Mock implementations ---

type mockApplicationRepo struct {
	createFn                func(ctx context.Context, app *domain.Application) (*domain.Application, error)
	getByUserIDFn           func(ctx context.Context, userID uuid.UUID) (*domain.Application, error)
	getByPublicIDFn         func(ctx context.Context, publicID uuid.UUID) (*domain.Application, error)
	getWithUserByPublicIDFn func(ctx context.Context, publicID uuid.UUID) (*domain.ApplicationWithUser, error)
	listWithUsersFn         func(ctx context.Context) ([]domain.ApplicationWithUser, error)
	updateFieldsFn          func(ctx context.Context, userID uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error)
	setInternalStatusFn     func(ctx context.Context, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return app, nil
}

func (m *mockApplicationRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNoApplication
}

func (m *mockApplicationRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Application, error) {
	if m.getByPublicIDFn != nil {
		return m.getByPublicIDFn(ctx, publicID)
	}
	return nil, domain.ErrNoApplication
}

func (m *mockApplicationRepo) GetWithUserByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.ApplicationWithUser, error) {
	if m.getWithUserByPublicIDFn != nil {
		return m.getWithUserByPublicIDFn(ctx, publicID)
	}
	return nil, domain.ErrNoApplication
}

func (m *mockApplicationRepo) ListWithUsers(ctx context.Context) ([]domain.ApplicationWithUser, error) {
	if m.listWithUsersFn != nil {
		return m.listWithUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockApplicationRepo) UpdateFields(ctx context.Context, userID uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error) {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, userID, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockApplicationRepo) SetInternalStatus(ctx context.Context, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error) {
	if m.setInternalStatusFn != nil {
		return m.setInternalStatusFn(ctx, publicID, status)
	}
	return nil, errors.New("not implemented")
}

type mockUserRepo struct {
	getByIDFn func(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "applicant@purdue.edu", FirstName: "Test"}, []string{domain.RoleUser}, nil
}

func (m *mockUserRepo) Create(ctx context.Context, firstName, lastName, email string, roles []string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

type mockBlobStore struct {
	putFn     func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	removeFn  func(ctx context.Context, key string) error
	presignFn func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func (m *mockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putFn != nil {
		return m.putFn(ctx, key, r, size, contentType)
	}
	return nil
}

func (m *mockBlobStore) Remove(ctx context.Context, key string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, key)
	}
	return nil
}

func (m *mockBlobStore) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.presignFn != nil {
		return m.presignFn(ctx, key, ttl)
	}
	return "https://blobs.example.com/" + key + "?signed", nil
}

type mockNotifier struct {
	sendFn func(ctx context.Context, user *domain.User) error
}

func (m *mockNotifier) SendApplicationConfirmation(ctx context.Context, user *domain.User) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, user)
	}
	return nil
}
