package models

import "time"

// UserRole represents the staff roles known to the application.
type UserRole string

const (
	RoleProfessor   UserRole = "professor"
	RoleColaborador UserRole = "colaborador"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	return r == RoleProfessor || r == RoleColaborador
}

// User is the staff profile keyed by the identity id.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Identity is a credential record held by the identity provider.
type Identity struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
