package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleHR       Role = "hr"       // HR staff - payroll, leave administration, interviews
	RoleManager  Role = "manager"  // Can approve leave and correct attendance
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Actor is the authenticated caller as supplied by the authorization gate.
// Engines trust it and only apply domain-level checks such as ownership.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// Can reports whether the actor's role grants permission.
func (a Actor) Can(permission Permission) bool {
	return HasPermission(a.Role, permission)
}

// IsHR reports whether the actor administers HR records on behalf of others.
func (a Actor) IsHR() bool {
	return a.Role == RoleOwner || a.Role == RoleHR
}
