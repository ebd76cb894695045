package auth

import (
	"slices"

	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

// RoleAllowed is the single authorization check shared by every role-gated route.
// An empty allowed set admits any valid role.
func RoleAllowed(role user.Role, allowed ...user.Role) bool {
	if !role.Valid() {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, role)
}
