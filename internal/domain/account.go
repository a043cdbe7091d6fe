package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the authorization level of an account.
type UserRole string

const (
	UserRoleClient      UserRole = "client"
	UserRoleExpert      UserRole = "expert"
	UserRoleAdminEditor UserRole = "admin_editor"
	UserRoleSuperAdmin  UserRole = "super_admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleClient, UserRoleExpert, UserRoleAdminEditor, UserRoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants access to the admin surface.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdminEditor || r == UserRoleSuperAdmin
}

// Account is any platform user: client, expert, or admin.
// Accounts are never hard-deleted; bans and deactivation are soft states.
type Account struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         UserRole
	// Credits is the materialized balance. It must always equal the sum of
	// completed transaction deltas for the account.
	Credits   int64
	IsActive  bool
	IsBanned  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
