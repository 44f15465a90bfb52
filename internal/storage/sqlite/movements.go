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

const movementColumns = `id, requester, tool, asset_tag, kind, checked_out_at, expected_return_at,
	same_day_return, has_expected_return, returned_at, notes, project, created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*models.Movement, error) {
	m := &models.Movement{}
	var kind, checkedOut, expected, returned string
	var sameDay, hasReturn int

	err := row.Scan(&m.ID, &m.Requester, &m.Tool, &m.AssetTag, &kind, &checkedOut, &expected,
		&sameDay, &hasReturn, &returned, &m.Notes, &m.Project, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	m.Kind = models.MovementKind(kind)
	m.CheckedOutAt = parseTime(checkedOut)
	m.ExpectedReturnAt = parseTime(expected)
	m.ReturnedAt = parseTime(returned)
	m.SameDayReturn = sameDay != 0
	m.HasExpectedReturn = hasReturn != 0
	return m, nil
}

// ListMovements retrieves every movement in creation order.
func (s *SQLiteStore) ListMovements(ctx context.Context) ([]*models.Movement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+movementColumns+" FROM movements ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, nil
}

// GetMovement retrieves a movement by ID.
func (s *SQLiteStore) GetMovement(ctx context.Context, movementID string) (*models.Movement, error) {
	m, err := scanMovement(s.db.QueryRowContext(ctx,
		"SELECT "+movementColumns+" FROM movements WHERE id = ?", movementID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movement %s: %w", movementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	return m, nil
}

// RecordMovement inserts the movement and takes its asset tag out of stock.
// If the tag is not held by any tool with the movement's tool name, nothing
// is written and ErrTagUnavailable is returned.
func (s *SQLiteStore) RecordMovement(ctx context.Context, movement *models.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt == 0 {
		movement.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO movements (`+movementColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			movement.ID, movement.Requester, movement.Tool, movement.AssetTag, string(movement.Kind),
			formatTime(movement.CheckedOutAt), formatTime(movement.ExpectedReturnAt),
			boolToInt(movement.SameDayReturn), boolToInt(movement.HasExpectedReturn),
			formatTime(movement.ReturnedAt), movement.Notes, movement.Project, movement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert movement: %w", err)
		}

		if movement.AssetTag == "" {
			return nil
		}

		var toolID string
		err = tx.QueryRowContext(ctx,
			`SELECT tt.tool_id FROM tool_tags tt
			 JOIN tools t ON t.id = tt.tool_id
			 WHERE tt.tag = ? AND t.name = ?
			 ORDER BY t.created_at, t.rowid LIMIT 1`,
			movement.AssetTag, movement.Tool,
		).Scan(&toolID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("asset tag %q of %q: %w", movement.AssetTag, movement.Tool, storage.ErrTagUnavailable)
		}
		if err != nil {
			return fmt.Errorf("failed to find asset tag: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"DELETE FROM tool_tags WHERE tool_id = ? AND tag = ?",
			toolID, movement.AssetTag,
		)
		if err != nil {
			return fmt.Errorf("failed to remove asset tag from stock: %w", err)
		}
		return nil
	})
}

// RecordReturn sets the return time of an open checkout and puts its asset
// tag back on the first tool row with the same name, creating that row if the
// tool was deleted in the meantime. A tag already back in stock is left alone.
func (s *SQLiteStore) RecordReturn(ctx context.Context, movementID string, returnedAt time.Time) (*models.Movement, error) {
	var movement *models.Movement

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMovement(tx.QueryRowContext(ctx,
			"SELECT "+movementColumns+" FROM movements WHERE id = ?", movementID,
		))
		if err == sql.ErrNoRows {
			return fmt.Errorf("movement %s: %w", movementID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get movement: %w", err)
		}
		if m.Kind != models.MovementCheckout || m.Returned() {
			return fmt.Errorf("movement %s: %w", movementID, storage.ErrNotReturnable)
		}

		m.ReturnedAt = returnedAt
		_, err = tx.ExecContext(ctx,
			"UPDATE movements SET returned_at = ? WHERE id = ?",
			formatTime(returnedAt), movementID,
		)
		if err != nil {
			return fmt.Errorf("failed to update movement: %w", err)
		}

		if m.AssetTag != "" {
			if err := restoreTag(ctx, tx, m.Tool, m.AssetTag); err != nil {
				return err
			}
		}

		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func restoreTag(ctx context.Context, tx *sql.Tx, toolName, tag string) error {
	held, err := tagHeld(ctx, tx, tag)
	if err != nil || held {
		return err
	}

	var toolID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM tools WHERE name = ? ORDER BY created_at, rowid LIMIT 1",
		toolName,
	).Scan(&toolID)
	if err == sql.ErrNoRows {
		return insertTool(ctx, tx, &models.Tool{Name: toolName, AssetTags: []string{tag}})
	}
	if err != nil {
		return fmt.Errorf("failed to find tool for returned asset tag: %w", err)
	}

	return insertTags(ctx, tx, toolID, []string{tag})
}
