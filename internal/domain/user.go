package domain

// UserRole identifies the capability set of the acting identity.
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
	RoleGuest  UserRole = "guest"
)

// Valid reports whether the role is one of the enumerated values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// CanSubmit reports whether the role may open tickets.
func (r UserRole) CanSubmit() bool {
	return r == RoleClient || r == RoleGuest
}

// User is the acting identity for a session. Identities are ephemeral:
// clients are created ad hoc at identification time, guests are synthetic,
// and the single admin identity is fixed by configuration. Nothing here is
// persisted server-side; the identity travels inside the session token.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
