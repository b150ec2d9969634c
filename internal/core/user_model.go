package core

import (
	"context"
	"time"
)

// User is someone who can sign in to a business's books.
type User struct {
	ID           int
	BusinessID   int
	BusinessCode string // joined from businesses
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

type UserService interface {
	// GetByUsername finds an active user by username. Usernames are global.
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	// CreateUser stores a user with an already-hashed password.
	CreateUser(ctx context.Context, businessCode, username, email, passwordHash, role string) (*User, error)
}
