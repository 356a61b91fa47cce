package domain

// User account states.
const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

// User roles.
const (
	RoleAdministrator = "Administrator"
	RoleDeveloper     = "Developer"
	RoleContentEditor = "Content Editor"
)

// User represents a platform account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	LastLogin string `json:"last_login"`
}

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r string) bool {
	switch r {
	case RoleAdministrator, RoleDeveloper, RoleContentEditor:
		return true
	}
	return false
}
