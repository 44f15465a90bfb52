package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

// ListRequesters retrieves every requester ordered by name.
func (s *SQLiteStore) ListRequesters(ctx context.Context) ([]*models.Requester, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM requesters ORDER BY name_key",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requesters: %w", err)
	}
	defer rows.Close()

	var requesters []*models.Requester
	for rows.Next() {
		r := &models.Requester{}
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan requester: %w", err)
		}
		requesters = append(requesters, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requesters: %w", err)
	}

	return requesters, nil
}

// AddRequester inserts a requester unless the name exists ignoring case.
func (s *SQLiteStore) AddRequester(ctx context.Context, requester *models.Requester) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		key := nameKey(requester.Name)
		taken, err := nameTaken(ctx, tx, "requesters", key)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("requester %q: %w", requester.Name, storage.ErrDuplicate)
		}

		if requester.ID == "" {
			requester.ID = uuid.New().String()
		}
		if requester.CreatedAt == 0 {
			requester.CreatedAt = time.Now().Unix()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO requesters (id, name, name_key, created_at) VALUES (?, ?, ?, ?)",
			requester.ID, requester.Name, key, requester.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert requester: %w", err)
		}
		return nil
	})
}

// ListProjects retrieves every project ordered by name.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM projects ORDER BY name_key",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// AddProjects inserts several projects in one transaction. A name that
// already exists, in the store or earlier in the batch, aborts the batch.
func (s *SQLiteStore) AddProjects(ctx context.Context, projects []*models.Project) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range projects {
			key := nameKey(p.Name)
			taken, err := nameTaken(ctx, tx, "projects", key)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("project %q: %w", p.Name, storage.ErrDuplicate)
			}

			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			if p.CreatedAt == 0 {
				p.CreatedAt = time.Now().Unix()
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO projects (id, name, name_key, created_at) VALUES (?, ?, ?, ?)",
				p.ID, p.Name, key, p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert project: %w", err)
			}
		}
		return nil
	})
}

// RemoveProject deletes a project by ID.
func (s *SQLiteStore) RemoveProject(ctx context.Context, projectID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", projectID, storage.ErrNotFound)
	}
	return nil
}

// nameTaken reports whether a folded name exists in table.
// table is always a package constant, never user input.
func nameTaken(ctx context.Context, tx *sql.Tx, table, key string) (bool, error) {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM "+table+" WHERE name_key = ?", key,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s name: %w", table, err)
	}
	return true, nil
}
