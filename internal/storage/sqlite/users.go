package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

// CreateAdminUser inserts a new admin account into the database.
func (s *SQLiteStore) CreateAdminUser(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// GetAdminUserByUsername retrieves an admin account by username.
func (s *SQLiteStore) GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = ?
	`

	user := &models.AdminUser{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return user, nil
}

// UpdateAdminPassword replaces the stored password hash for a user.
func (s *SQLiteStore) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE admin_users SET password_hash = ? WHERE username = ?",
		passwordHash, username,
	)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return nil
}
