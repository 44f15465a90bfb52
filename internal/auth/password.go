package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AdminStorage defines the persistence operations the authenticator needs.
type AdminStorage interface {
	CreateAdminUser(ctx context.Context, user *models.AdminUser) error
	GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage AdminStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage AdminStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// EnsureAdmin makes the stored account match the configured credentials:
// the account is created when missing and its hash replaced when the
// configured password changed.
func (a *PasswordAuthenticator) EnsureAdmin(ctx context.Context, username, password string) error {
	if err := a.ValidateCredential(password); err != nil {
		return err
	}

	user, err := a.storage.GetAdminUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if user != nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if user == nil {
		if err := a.storage.CreateAdminUser(ctx, models.NewAdminUser(username, string(hashedPassword))); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		slog.Info("Admin account created", "username", username)
		return nil
	}

	if err := a.storage.UpdateAdminPassword(ctx, username, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	slog.Info("Admin password updated from configuration", "username", username)
	return nil
}

// Authenticate verifies the username and password, returning the account if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.AdminUser, error) {
	user, err := a.storage.GetAdminUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
