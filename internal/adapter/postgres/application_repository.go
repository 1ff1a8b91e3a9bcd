package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const appColumns = `id, public_id, user_id, class_year, grad_year, major, referral,
	hackathon_count, shirt_size, dietary_restrictions, website, longanswer_1, longanswer_2,
	status_internal, status_public, last_email_status, resume_uploaded, created_at, updated_at`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.PublicID, &app.UserID,
		&app.ClassYear, &app.GradYear, &app.Major, &app.Referral,
		&app.HackathonCount, &app.ShirtSize, &app.DietaryRestrictions,
		&app.Website, &app.LongAnswer1, &app.LongAnswer2,
		&app.StatusInternal, &app.StatusPublic, &app.LastEmailStatus,
		&app.ResumeUploaded, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepo) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO applications (
			public_id, user_id, class_year, grad_year, major, referral,
			hackathon_count, shirt_size, dietary_restrictions, website,
			longanswer_1, longanswer_2, status_internal, status_public,
			last_email_status, resume_uploaded
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+appColumns,
		app.PublicID, app.UserID, app.ClassYear, app.GradYear, app.Major, app.Referral,
		app.HackathonCount, app.ShirtSize, app.DietaryRestrictions, app.Website,
		app.LongAnswer1, app.LongAnswer2, app.StatusInternal, app.StatusPublic,
		app.LastEmailStatus, app.ResumeUploaded,
	)

	created, err := scanApplication(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "user_id") {
			return nil, domain.ErrApplicationExists
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

func (r *ApplicationRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appColumns+` FROM applications WHERE user_id = $1`, userID)
	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoApplication
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application by user ID: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appColumns+` FROM applications WHERE public_id = $1`, publicID)
	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoApplication
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application by public ID: %w", err)
	}
	return app, nil
}

const appWithUserQuery = `
	SELECT a.id, a.public_id, a.user_id, a.class_year, a.grad_year, a.major, a.referral,
		a.hackathon_count, a.shirt_size, a.dietary_restrictions, a.website,
		a.longanswer_1, a.longanswer_2, a.status_internal, a.status_public,
		a.last_email_status, a.resume_uploaded, a.created_at, a.updated_at,
		u.id, u.firstname, u.lastname, u.email, u.created_at, u.updated_at
	FROM applications a
	JOIN users u ON u.id = a.user_id`

func scanApplicationWithUser(row pgx.Row) (*domain.ApplicationWithUser, error) {
	var awu domain.ApplicationWithUser
	err := row.Scan(
		&awu.ID, &awu.PublicID, &awu.UserID,
		&awu.ClassYear, &awu.GradYear, &awu.Major, &awu.Referral,
		&awu.HackathonCount, &awu.ShirtSize, &awu.DietaryRestrictions,
		&awu.Website, &awu.LongAnswer1, &awu.LongAnswer2,
		&awu.StatusInternal, &awu.StatusPublic, &awu.LastEmailStatus,
		&awu.ResumeUploaded, &awu.CreatedAt, &awu.UpdatedAt,
		&awu.User.ID, &awu.User.FirstName, &awu.User.LastName,
		&awu.User.Email, &awu.User.CreatedAt, &awu.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &awu, nil
}

func (r *ApplicationRepo) GetWithUserByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.ApplicationWithUser, error) {
	row := r.pool.QueryRow(ctx, appWithUserQuery+` WHERE a.public_id = $1`, publicID)
	awu, err := scanApplicationWithUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoApplication
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application with user: %w", err)
	}
	return awu, nil
}

func (r *ApplicationRepo) ListWithUsers(ctx context.Context) ([]domain.ApplicationWithUser, error) {
	rows, err := r.pool.Query(ctx, appWithUserQuery+` ORDER BY a.created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var result []domain.ApplicationWithUser
	for rows.Next() {
		awu, err := scanApplicationWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		result = append(result, *awu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return result, nil
}

// UpdateFields applies the patch as a single UPDATE. Column assignments are
// built from the explicit field list; nothing outside ApplicationPatch can
// ever reach this statement.
func (r *ApplicationRepo) UpdateFields(ctx context.Context, userID uuid.UUID, patch *domain.ApplicationPatch) (*domain.Application, error) {
	sets := make([]string, 0, 12)
	args := make([]any, 0, 13)
	args = append(args, userID)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ClassYear != nil {
		add("class_year", *patch.ClassYear)
	}
	if patch.GradYear != nil {
		add("grad_year", *patch.GradYear)
	}
	if patch.Major != nil {
		add("major", *patch.Major)
	}
	if patch.Referral != nil {
		add("referral", *patch.Referral)
	}
	if patch.HackathonCount != nil {
		add("hackathon_count", *patch.HackathonCount)
	}
	if patch.ShirtSize != nil {
		add("shirt_size", *patch.ShirtSize)
	}
	if patch.DietaryRestrictions != nil {
		add("dietary_restrictions", *patch.DietaryRestrictions)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.LongAnswer1 != nil {
		add("longanswer_1", *patch.LongAnswer1)
	}
	if patch.LongAnswer2 != nil {
		add("longanswer_2", *patch.LongAnswer2)
	}
	if patch.ResumeUploaded != nil {
		add("resume_uploaded", *patch.ResumeUploaded)
	}

	if len(sets) == 0 {
		return r.GetByUserID(ctx, userID)
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(
		`UPDATE applications SET %s WHERE user_id = $1 RETURNING %s`,
		strings.Join(sets, ", "), appColumns,
	)

	app, err := scanApplication(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoApplication
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepo) SetInternalStatus(ctx context.Context, publicID uuid.UUID, status domain.InternalStatus) (*domain.ApplicationWithUser, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE applications SET status_internal = $2, updated_at = now()
		WHERE public_id = $1`, publicID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to set internal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNoApplication
	}
	return r.GetWithUserByPublicID(ctx, publicID)
}
