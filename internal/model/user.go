package model

import "time"

// Roles carried in the JWT "role" claim. They mirror the marketplace's two
// account kinds: students looking for courses and instructors giving them.
// Any authenticated user may publish a course regardless of role.
const (
	RoleStudent    = "ETUDIANT"
	RoleInstructor = "PROFESSEUR"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
