package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// InternalStatus is the admin-visible workflow state of an application.
type InternalStatus string

const (
	StatusPending    InternalStatus = "pending"
	StatusAccepted   InternalStatus = "accepted"
	StatusWaitlisted InternalStatus = "waitlisted"
	StatusRejected   InternalStatus = "rejected"
)

// AdminSettableStatuses are the states an admin may move an application into.
// "pending" is the creation state and is never set explicitly.
var AdminSettableStatuses = []InternalStatus{StatusAccepted, StatusWaitlisted, StatusRejected}

// IsAdminSettable reports whether s is a valid target for a status change.
func (s InternalStatus) IsAdminSettable() bool {
	switch s {
	case StatusAccepted, StatusWaitlisted, StatusRejected:
		return true
	default:
		return false
	}
}

const (
	// EmailStatusNone means no notification has been recorded for the applicant.
	EmailStatusNone = "none"
)

// Enumerated submission fields. The grad year list is a fixed window, same
// design as class year: extend it when a new cycle opens.
var (
	ClassYears = []string{"freshman", "sophomore", "junior", "senior"}
	GradYears  = []string{"2026", "2027", "2028", "2029", "2030", "2031"}
	Referrals  = []string{"social_media", "website", "flyers", "class", "friend", "none"}
	ShirtSizes = []string{"s", "m", "l", "xl", "xxl"}
)

// Application is a user's single hackathon application. ID is the internal
// primary key and never leaves the system; PublicID is the identifier exposed
// to clients and used in resume object keys.
type Application struct {
	ID       uuid.UUID
	PublicID uuid.UUID
	UserID   uuid.UUID

	ClassYear           string
	GradYear            string
	Major               string
	Referral            string
	HackathonCount      int
	ShirtSize           string
	DietaryRestrictions string
	Website             string
	LongAnswer1         string
	LongAnswer2         string

	StatusInternal  InternalStatus
	StatusPublic    InternalStatus
	LastEmailStatus string
	ResumeUploaded  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResumeKey is the blob store object key for this application's resume.
// Derived from the public ID only, so re-uploads overwrite the same object
// and presigned URLs always address the current resume.
func (a *Application) ResumeKey() string {
	return "resumes/" + a.PublicID.String()
}

// PublicApplication is the projection of an Application returned to its
// owner. It hides the internal review status and the email bookkeeping;
// Status carries StatusPublic.
type PublicApplication struct {
	ID                  uuid.UUID      `json:"id"`
	ClassYear           string         `json:"class_year"`
	GradYear            string         `json:"grad_year"`
	Major               string         `json:"major"`
	Referral            string         `json:"referral"`
	HackathonCount      int            `json:"hackathon_count"`
	ShirtSize           string         `json:"shirt_size"`
	DietaryRestrictions string         `json:"dietary_restrictions,omitempty"`
	Website             string         `json:"website,omitempty"`
	LongAnswer1         string         `json:"longanswer_1"`
	LongAnswer2         string         `json:"longanswer_2"`
	Status              InternalStatus `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Public returns the owner-facing projection of the application.
func (a *Application) Public() *PublicApplication {
	return &PublicApplication{
		ID:                  a.PublicID,
		ClassYear:           a.ClassYear,
		GradYear:            a.GradYear,
		Major:               a.Major,
		Referral:            a.Referral,
		HackathonCount:      a.HackathonCount,
		ShirtSize:           a.ShirtSize,
		DietaryRestrictions: a.DietaryRestrictions,
		Website:             a.Website,
		LongAnswer1:         a.LongAnswer1,
		LongAnswer2:         a.LongAnswer2,
		Status:              a.StatusPublic,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// ApplicationWithUser is the unfiltered admin view: the full record plus its
// owner.
type ApplicationWithUser struct {
	Application
	User User
}

// ApplicationPatch carries a partial update. Nil fields are left untouched.
// Every assignable column is listed explicitly so nothing outside this set
// can ever reach persistence.
type ApplicationPatch struct {
	ClassYear           *string
	GradYear            *string
	Major               *string
	Referral            *string
	HackathonCount      *int
	ShirtSize           *string
	DietaryRestrictions *string
	Website             *string
	LongAnswer1         *string
	LongAnswer2         *string

	// ResumeUploaded is set by the service after a successful upload; it is
	// never populated from client input.
	ResumeUploaded *bool
}

// Empty reports whether the patch assigns nothing.
func (p *ApplicationPatch) Empty() bool {
	return p.ClassYear == nil && p.GradYear == nil && p.Major == nil &&
		p.Referral == nil && p.HackathonCount == nil && p.ShirtSize == nil &&
		p.DietaryRestrictions == nil && p.Website == nil &&
		p.LongAnswer1 == nil && p.LongAnswer2 == nil && p.ResumeUploaded == nil
}

type ApplicationRepository interface {
	// Create persists a new application. A concurrent or repeated submission
	// for the same user must fail with ErrApplicationExists, enforced by a
	// uniqueness constraint rather than a pre-check.
	Create(ctx context.Context, app *Application) (*Application, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Application, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Application, error)
	GetWithUserByPublicID(ctx context.Context, publicID uuid.UUID) (*ApplicationWithUser, error)
	ListWithUsers(ctx context.Context) ([]ApplicationWithUser, error)
	// UpdateFields applies a partial update to the caller's application and
	// returns the updated record.
	UpdateFields(ctx context.Context, userID uuid.UUID, patch *ApplicationPatch) (*Application, error)
	// SetInternalStatus changes status_internal only; status_public is never
	// touched by this operation.
	SetInternalStatus(ctx context.Context, publicID uuid.UUID, status InternalStatus) (*ApplicationWithUser, error)
}

// BlobStore stores resume files by key and issues time-limited download URLs.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Notifier delivers transactional mail. Implementations must not be relied
// on for the request outcome; sends are fire-and-forget.
type Notifier interface {
	SendApplicationConfirmation(ctx context.Context, user *User) error
}
