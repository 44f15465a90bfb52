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

// ListTools retrieves every tool with its asset tags, in creation order.
func (s *SQLiteStore) ListTools(ctx context.Context) ([]*models.Tool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at FROM tools ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	var tools []*models.Tool
	byID := make(map[string]*models.Tool)
	for rows.Next() {
		tool := &models.Tool{}
		if err := rows.Scan(&tool.ID, &tool.Name, &tool.Description, &tool.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		tools = append(tools, tool)
		byID[tool.ID] = tool
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tools: %w", err)
	}

	// Load all tags in one pass instead of one query per tool
	tagRows, err := s.db.QueryContext(ctx,
		"SELECT tool_id, tag FROM tool_tags ORDER BY tool_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var toolID, tag string
		if err := tagRows.Scan(&toolID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan asset tag: %w", err)
		}
		if tool, ok := byID[toolID]; ok {
			tool.AssetTags = append(tool.AssetTags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset tags: %w", err)
	}

	return tools, nil
}

// AddTool persists a new tool with its asset tags.
func (s *SQLiteStore) AddTool(ctx context.Context, tool *models.Tool) error {
	return s.AddTools(ctx, []*models.Tool{tool})
}

// AddTools persists several tools in one transaction.
func (s *SQLiteStore) AddTools(ctx context.Context, tools []*models.Tool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, tool := range tools {
			if err := insertTool(ctx, tx, tool); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTool replaces a tool's name, description and asset tags.
func (s *SQLiteStore) UpdateTool(ctx context.Context, tool *models.Tool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE tools SET name = ?, description = ? WHERE id = ?",
			tool.Name, tool.Description, tool.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update tool: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("tool %s: %w", tool.ID, storage.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM tool_tags WHERE tool_id = ?", tool.ID); err != nil {
			return fmt.Errorf("failed to clear asset tags: %w", err)
		}
		return insertTags(ctx, tx, tool.ID, tool.AssetTags)
	})
}

// RemoveTool deletes a tool. Its asset tags go with it.
func (s *SQLiteStore) RemoveTool(ctx context.Context, toolID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tools WHERE id = ?", toolID)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tool %s: %w", toolID, storage.ErrNotFound)
	}
	return nil
}

// RemoveAssetTag removes one asset tag from a tool.
func (s *SQLiteStore) RemoveAssetTag(ctx context.Context, toolID, tag string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tool_tags WHERE tool_id = ? AND tag = ?",
		toolID, tag,
	)
	if err != nil {
		return fmt.Errorf("failed to delete asset tag: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("asset tag %q on tool %s: %w", tag, toolID, storage.ErrNotFound)
	}
	return nil
}

// insertTool writes a tool row and its tags, generating ID and CreatedAt if unset.
func insertTool(ctx context.Context, tx *sql.Tx, tool *models.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.New().String()
	}
	if tool.CreatedAt == 0 {
		tool.CreatedAt = time.Now().Unix()
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO tools (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		tool.ID, tool.Name, tool.Description, tool.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tool: %w", err)
	}

	return insertTags(ctx, tx, tool.ID, tool.AssetTags)
}

// insertTags appends tags to a tool after its current last position.
func insertTags(ctx context.Context, tx *sql.Tx, toolID string, tags []string) error {
	var next int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM tool_tags WHERE tool_id = ?",
		toolID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read asset tag position: %w", err)
	}

	for _, tag := range tags {
		held, err := tagHeld(ctx, tx, tag)
		if err != nil {
			return err
		}
		if held {
			return fmt.Errorf("asset tag %q: %w", tag, storage.ErrDuplicateTag)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO tool_tags (tool_id, tag, position) VALUES (?, ?, ?)",
			toolID, tag, next,
		)
		if err != nil {
			return fmt.Errorf("failed to insert asset tag: %w", err)
		}
		next++
	}
	return nil
}

func tagHeld(ctx context.Context, tx *sql.Tx, tag string) (bool, error) {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM tool_tags WHERE tag = ?", tag).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check asset tag: %w", err)
	}
	return true, nil
}
