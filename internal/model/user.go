package model

import "time"

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleUser     = "user"
	RoleCrew     = "crew"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// User mirrors the users table.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
