package domain

import "strings"

// Role is the server-assigned role of an identity.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a role string; unknown or empty values become CUSTOMER.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// Satisfies reports whether r grants access to views requiring required.
// ADMIN satisfies every requirement; CUSTOMER only satisfies CUSTOMER.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// Identity is the user as known to the client.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is a point-in-time copy of the session store state.
type Session struct {
	Credential    string    `json:"-"`
	Identity      *Identity `json:"user,omitempty"`
	Authenticated bool      `json:"isAuthenticated"`
}
