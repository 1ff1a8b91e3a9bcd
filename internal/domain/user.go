package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role names are stored as data, mirroring the seeded roles table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated identity making a request. It is resolved
// once at the HTTP boundary and threaded explicitly through every service
// call; there is no ambient current-user lookup.
type Principal struct {
	ID    uuid.UUID
	Roles []string
}

// HasRole reports whether the principal carries the named role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the principal may perform review operations.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

type UserRepository interface {
	// GetByID returns the user together with its role set.
	GetByID(ctx context.Context, userID uuid.UUID) (*User, []string, error)
	// Create inserts a user with the given roles. Registration itself is
	// handled by the auth subsystem; this exists for seeding and tests.
	Create(ctx context.Context, firstName, lastName, email string, roles []string) (*User, error)
}
