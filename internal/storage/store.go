// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

var (
	// ErrNotFound is returned when a record with the given ID does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a requester or project name already
	// exists ignoring letter case.
	ErrDuplicate = errors.New("name already exists")

	// ErrDuplicateTag is returned when an asset tag is already held by a tool.
	ErrDuplicateTag = errors.New("asset tag already in stock")

	// ErrTagUnavailable is returned when a checkout names an asset tag that no
	// tool with that name currently holds.
	ErrTagUnavailable = errors.New("asset tag not available")

	// ErrNotReturnable is returned when a return is recorded for a movement
	// that is not an open checkout.
	ErrNotReturnable = errors.New("movement is not an open checkout")
)

// Store defines the interface for the local, authoritative store.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// ListTools returns every tool row in creation order.
	ListTools(ctx context.Context) ([]*models.Tool, error)

	// AddTool persists a new tool. The tool.ID field will be populated by the store.
	AddTool(ctx context.Context, tool *models.Tool) error

	// AddTools persists several tools atomically: either all rows are created
	// or none are.
	AddTools(ctx context.Context, tools []*models.Tool) error

	// UpdateTool replaces the name, description and asset tags of a tool.
	UpdateTool(ctx context.Context, tool *models.Tool) error

	// RemoveTool deletes a tool and its asset tags.
	RemoveTool(ctx context.Context, toolID string) error

	// RemoveAssetTag removes one asset tag from a tool.
	RemoveAssetTag(ctx context.Context, toolID, tag string) error

	// ListRequesters returns every requester ordered by name.
	ListRequesters(ctx context.Context) ([]*models.Requester, error)

	// AddRequester persists a new requester.
	// Returns ErrDuplicate if the name exists ignoring case.
	AddRequester(ctx context.Context, requester *models.Requester) error

	// ListProjects returns every project ordered by name.
	ListProjects(ctx context.Context) ([]*models.Project, error)

	// AddProjects persists several projects atomically.
	// Returns ErrDuplicate if any name exists ignoring case.
	AddProjects(ctx context.Context, projects []*models.Project) error

	// RemoveProject deletes a project.
	RemoveProject(ctx context.Context, projectID string) error

	// ListMovements returns every movement in creation order.
	ListMovements(ctx context.Context) ([]*models.Movement, error)

	// GetMovement retrieves a movement by ID.
	GetMovement(ctx context.Context, movementID string) (*models.Movement, error)

	// RecordMovement persists a movement and, when it names an asset tag,
	// removes that tag from the first tool row with the same name holding it.
	// Both writes happen in one transaction.
	RecordMovement(ctx context.Context, movement *models.Movement) error

	// RecordReturn marks a checkout as returned and puts its asset tag back
	// in stock, in one transaction.
	RecordReturn(ctx context.Context, movementID string, returnedAt time.Time) (*models.Movement, error)

	// CreateAdminUser persists a new admin account.
	CreateAdminUser(ctx context.Context, user *models.AdminUser) error

	// GetAdminUserByUsername returns nil, nil when the user does not exist.
	GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error)

	// Close releases any resources held by the store.
	Close() error
}
