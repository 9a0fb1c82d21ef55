package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// User roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
