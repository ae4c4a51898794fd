package domain

import (
	"github.com/google/uuid"
)

// Role classifies a caller for access-control decisions.
type Role string

const (
	// RoleUser is the default role: access limited to owned objects.
	RoleUser Role = "user"

	// RoleAdmin grants access to every object and the audit trail.
	RoleAdmin Role = "admin"
)

// ParseRole converts a role string to a Role, defaulting unknown values to RoleUser.
// The identity layer is trusted for authentication but unknown role strings must
// never escalate privileges.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is an already-authenticated caller as handed over by the identity
// layer. The core never authenticates; it only decides what an Identity may do.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
