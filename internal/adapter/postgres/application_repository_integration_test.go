package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

func newTestApplication(userID uuid.UUID) *domain.Application {
	return &domain.Application{
		PublicID:            uuid.New(),
		UserID:              userID,
		ClassYear:           "sophomore",
		GradYear:            "2028",
		Major:               "Computer Science",
		Referral:            "friend",
		HackathonCount:      3,
		ShirtSize:           "m",
		DietaryRestrictions: "vegetarian",
		LongAnswer1:         "answer one",
		LongAnswer2:         "answer two",
		StatusInternal:      domain.StatusPending,
		StatusPublic:        domain.StatusPending,
		LastEmailStatus:     domain.EmailStatusNone,
		ResumeUploaded:      false,
	}
}

func TestApplicationCreate_Roundtrip(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	created, err := repo.Create(ctx, newTestApplication(user.ID))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, domain.StatusPending, created.StatusInternal)
	assert.Equal(t, domain.StatusPending, created.StatusPublic)
	assert.Equal(t, domain.EmailStatusNone, created.LastEmailStatus)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Computer Science", got.Major)
	assert.Equal(t, 3, got.HackathonCount)
	assert.Equal(t, "m", got.ShirtSize)
	assert.Equal(t, "vegetarian", got.DietaryRestrictions)

	byPublic, err := repo.GetByPublicID(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPublic.ID)
}

func TestApplicationCreate_DuplicateUser(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestApplication(user.ID))
	require.NoError(t, err)

	// Second application for the same user violates the unique constraint.
	_, err = repo.Create(ctx, newTestApplication(user.ID))
	assert.ErrorIs(t, err, domain.ErrApplicationExists)
}

func TestApplicationGetByUserID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewApplicationRepo(pool)

	_, err := repo.GetByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNoApplication)
}

func TestApplicationGetWithUser(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	created, err := repo.Create(ctx, newTestApplication(user.ID))
	require.NoError(t, err)

	awu, err := repo.GetWithUserByPublicID(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, awu.Application.ID)
	assert.Equal(t, "ada@purdue.edu", awu.User.Email)
	assert.Equal(t, "Ada", awu.User.FirstName)
}

func TestApplicationUpdateFields_Partial(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	created, err := repo.Create(ctx, newTestApplication(user.ID))
	require.NoError(t, err)

	major := "Mathematics"
	uploaded := true
	updated, err := repo.UpdateFields(ctx, user.ID, &domain.ApplicationPatch{
		Major:          &major,
		ResumeUploaded: &uploaded,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mathematics", updated.Major)
	assert.True(t, updated.ResumeUploaded)
	// Untouched columns keep their values.
	assert.Equal(t, created.ClassYear, updated.ClassYear)
	assert.Equal(t, created.LongAnswer1, updated.LongAnswer1)
	assert.Equal(t, created.PublicID, updated.PublicID)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestApplicationUpdateFields_NoApplication(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewApplicationRepo(pool)

	major := "Mathematics"
	_, err := repo.UpdateFields(context.Background(), uuid.New(), &domain.ApplicationPatch{Major: &major})
	assert.ErrorIs(t, err, domain.ErrNoApplication)
}

func TestApplicationSetInternalStatus(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	created, err := repo.Create(ctx, newTestApplication(user.ID))
	require.NoError(t, err)

	awu, err := repo.SetInternalStatus(ctx, created.PublicID, domain.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, awu.StatusInternal)
	assert.Equal(t, domain.StatusPending, awu.StatusPublic, "status_public must not move")
	assert.Equal(t, "ada@purdue.edu", awu.User.Email)

	// Persisted, not just returned.
	got, err := repo.GetByPublicID(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, got.StatusInternal)
	assert.Equal(t, domain.StatusPending, got.StatusPublic)
}

func TestApplicationSetInternalStatus_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewApplicationRepo(pool)

	_, err := repo.SetInternalStatus(context.Background(), uuid.New(), domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrNoApplication)
}

func TestApplicationListWithUsers(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	first, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)
	second, err := users.Create(ctx, "Alan", "Turing", "alan@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestApplication(first.ID))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestApplication(second.ID))
	require.NoError(t, err)

	all, err := repo.ListWithUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	emails := []string{all[0].User.Email, all[1].User.Email}
	assert.Contains(t, emails, "ada@purdue.edu")
	assert.Contains(t, emails, "alan@purdue.edu")
}

func TestApplicationCreate_RejectsBadEnum(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	repo := NewApplicationRepo(pool)
	ctx := context.Background()

	user, err := users.Create(ctx, "Ada", "Lovelace", "ada@purdue.edu", []string{domain.RoleUser})
	require.NoError(t, err)

	app := newTestApplication(user.ID)
	app.StatusInternal = domain.InternalStatus("approved")
	_, err = repo.Create(ctx, app)
	assert.Error(t, err, "status check constraint should reject unknown values")
}
