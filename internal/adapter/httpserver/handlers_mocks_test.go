package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/app"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/config"
)

const testJWTSecret = "test-secret-key-32-bytes-long!!!"

// --- Mock implementations ---

type mockAppService struct {
	getOwnApplicationFn func(ctx context.Context, principal domain.Principal) (*domain.PublicApplication, error)
	getApplicationFn    func(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (*domain.ApplicationWithUser, error)
	listApplicationsFn  func(ctx context.Context, principal domain.Principal) ([]domain.ApplicationWithUser, error)
	submitFn            func(ctx context.Context, principal domain.Principal, req app.SubmitRequest, resume *app.ResumeUpload) error
	updateFn            func(ctx context.Context, principal domain.Principal, req app.UpdateRequest, resume *app.ResumeUpload) (*domain.PublicApplication, error)
	setStatusFn         func(ctx context.Context, principal domain.Principal, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error)
	ownResumeURLFn      func(ctx context.Context, principal domain.Principal) (string, error)
	resumeURLFn         func(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (string, error)
}

func (m *mockAppService) GetOwnApplication(ctx context.Context, principal domain.Principal) (*domain.PublicApplication, error) {
	if m.getOwnApplicationFn != nil {
		return m.getOwnApplicationFn(ctx, principal)
	}
	return nil, domain.ErrNoApplication
}

func (m *mockAppService) GetApplication(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (*domain.ApplicationWithUser, error) {
	if m.getApplicationFn != nil {
		return m.getApplicationFn(ctx, principal, publicID)
	}
	return nil, domain.ErrNoApplication
}

func (m *mockAppService) ListApplications(ctx context.Context, principal domain.Principal) ([]domain.ApplicationWithUser, error) {
	if m.listApplicationsFn != nil {
		return m.listApplicationsFn(ctx, principal)
	}
	return nil, nil
}

func (m *mockAppService) Submit(ctx context.Context, principal domain.Principal, req app.SubmitRequest, resume *app.ResumeUpload) error {
	if m.submitFn != nil {
		return m.submitFn(ctx, principal, req, resume)
	}
	return nil
}

func (m *mockAppService) Update(ctx context.Context, principal domain.Principal, req app.UpdateRequest, resume *app.ResumeUpload) (*domain.PublicApplication, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, principal, req, resume)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) SetStatus(ctx context.Context, principal domain.Principal, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, principal, publicID, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) OwnResumeURL(ctx context.Context, principal domain.Principal) (string, error) {
	if m.ownResumeURLFn != nil {
		return m.ownResumeURLFn(ctx, principal)
	}
	return "", domain.ErrNoResume
}

func (m *mockAppService) ResumeURL(ctx context.Context, principal domain.Principal, publicID uuid.UUID) (string, error) {
	if m.resumeURLFn != nil {
		return m.resumeURLFn(ctx, principal, publicID)
	}
	return "", domain.ErrNoResume
}

type mockUserRepo struct {
	getByIDFn func(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "applicant@purdue.edu"}, []string{domain.RoleUser}, nil
}

func (m *mockUserRepo) Create(ctx context.Context, firstName, lastName, email string, roles []string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func newTestServer(t *testing.T, appSvc appService, users domain.UserRepository) *Server {
	t.Helper()

	if appSvc == nil {
		appSvc = &mockAppService{}
	}
	if users == nil {
		users = &mockUserRepo{}
	}

	cfg := &config.Config{
		JWTSecret:           testJWTSecret,
		ResumeURLTTL:        10 * time.Minute,
		MaxResumeSizeBytes:  10 << 20,
		SubmitRatePerSecond: 1000,
		SubmitRateBurst:     1000,
	}

	return NewServer(cfg, appSvc, users, nil)
}

// signToken issues a bearer token the way the auth subsystem would.
func signToken(t *testing.T, userID uuid.UUID, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authHeader(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	return "Bearer " + signToken(t, userID, testJWTSecret)
}

func authHeaderSignedWith(t *testing.T, userID uuid.UUID, secret string) string {
	t.Helper()
	return "Bearer " + signToken(t, userID, secret)
}

// multipartBody builds a multipart form from fields plus an optional resume
// file part.
func multipartBody(t *testing.T, fields map[string]string, resume []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if resume != nil {
		part, err := w.CreateFormFile("resume", "resume.pdf")
		require.NoError(t, err)
		_, err = part.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validSubmitForm() map[string]string {
	return map[string]string{
		"class_year":      "sophomore",
		"grad_year":       "2028",
		"major":           "Computer Science",
		"referral":        "friend",
		"hackathon_count": "3",
		"shirt_size":      "m",
		"longanswer_1":    "I want to build things.",
		"longanswer_2":    "I have built things before.",
	}
}

// callHandler wraps a handler with the error middleware, matching production
// behavior.
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

func withPrincipal(c echo.Context, principal domain.Principal) {
	c.Set(principalKey, principal)
}
