// Package auth provides admin authentication and session tokens.
package auth

import (
	"context"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

// Authenticator defines the interface for admin authentication.
// This abstraction allows swapping the credential check (password, SSO, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credentials and returns the admin account.
	// Returns ErrInvalidCredentials if they do not match.
	Authenticate(ctx context.Context, username, credential string) (*models.AdminUser, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
