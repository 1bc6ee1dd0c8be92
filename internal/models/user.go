// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PasswordHistoryDepth is how many previous password hashes are retained
// per user for the reuse check.
const PasswordHistoryDepth = 2

// User represents an account holder. The hash and history are never
// serialized.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile returns the public projection of the user embedded in other
// resources as their creator.
func (u *User) Profile() *PublicProfile {
	return &PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// PasswordHistoryEntry is one retired password hash.
type PasswordHistoryEntry struct {
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfile is the subset of a user that other resources expose.
type PublicProfile struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}
