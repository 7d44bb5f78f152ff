package entities

import (
	"strings"
	"time"

	pkgerrors "lexmatter/pkg/errors"
)

// User is the account that owns matters and performs operations. Identity is
// established by the JWT subject claim; this entity holds the profile fields
// recorded alongside activity entries.
type User struct {
	id        string
	email     string
	name      string
	roles     []string
	createdAt time.Time
	lastSeen  time.Time
}

// NewUser creates a user from verified token claims
func NewUser(id, email, name string, roles []string) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, pkgerrors.NewValidationError("email is not valid")
	}

	now := time.Now()
	return &User{
		id:        id,
		email:     email,
		name:      name,
		roles:     append([]string(nil), roles...),
		createdAt: now,
		lastSeen:  now,
	}, nil
}

// ReconstructUser rebuilds a user from repository data
func ReconstructUser(id, email, name string, roles []string, createdAt, lastSeen time.Time) *User {
	return &User{
		id:        id,
		email:     email,
		name:      name,
		roles:     append([]string(nil), roles...),
		createdAt: createdAt,
		lastSeen:  lastSeen,
	}
}

// ID returns the user's identifier (the JWT subject)
func (u *User) ID() string {
	return u.id
}

// Email returns the user's email address
func (u *User) Email() string {
	return u.email
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// Roles returns a copy of the user's roles
func (u *User) Roles() []string {
	return append([]string(nil), u.roles...)
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.roles {
		if r == role {
			return true
		}
	}
	return false
}

// CreatedAt returns when the user was first seen
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// LastSeen returns the time of the user's most recent request
func (u *User) LastSeen() time.Time {
	return u.lastSeen
}

// Touch updates the last-seen timestamp
func (u *User) Touch() {
	u.lastSeen = time.Now()
}
