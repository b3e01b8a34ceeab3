package auth

import "strings"

// Caller is the authenticated identity a request acts as.
type Caller struct {
	UserID    string
	Roles     []string
	adminRole string
}

// NewCaller builds a Caller; adminRole names the role that grants admin rights.
func NewCaller(userID string, roles []string, adminRole string) Caller {
	if adminRole == "" {
		adminRole = RoleAdmin
	}
	return Caller{UserID: userID, Roles: roles, adminRole: adminRole}
}

// HasRole reports whether the caller holds role, ignoring case and a "ROLE_" prefix.
func (c Caller) HasRole(role string) bool {
	want := normalizeRole(role)
	for _, r := range c.Roles {
		if normalizeRole(r) == want {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	role := c.adminRole
	if role == "" {
		role = RoleAdmin
	}
	return c.HasRole(role)
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (c Caller) CanAccess(ownerID string) bool {
	return c.IsAdmin() || c.UserID == ownerID
}

func normalizeRole(role string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
}
