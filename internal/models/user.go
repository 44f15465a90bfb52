package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser represents an account allowed into the admin panel.
type AdminUser struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name (unique).
	Username string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewAdminUser builds an AdminUser with a fresh ID and creation time.
func NewAdminUser(username, passwordHash string) *AdminUser {
	return &AdminUser{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
