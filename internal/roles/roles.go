// Package roles defines the user roles shared across modules.
package roles

const (
	Admin    = "admin"
	Manager  = "manager"
	Employee = "employee"
)

// Valid reports whether role is a known role.
func Valid(role string) bool {
	return role == Admin || role == Manager || role == Employee
}

// Elevated reports whether role may see leads beyond its own assignments.
func Elevated(role string) bool {
	return role == Admin || role == Manager
}
