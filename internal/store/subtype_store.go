package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvhoang/dayplan/internal/model"
)

// CreateSubtype inserts a new subtype. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateSubtype(ctx context.Context, subtype model.Subtype) error {
	if strings.TrimSpace(subtype.Name) == "" {
		return fmt.Errorf("subtype name must not be empty")
	}
	if subtype.ID == "" {
		subtype.ID = uuid.New().String()
	}
	if subtype.CreatedAt.IsZero() {
		subtype.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subtypes (
			id, name, kind, show_in_calendar,
			color_id, icon, sort_order, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		subtype.ID, subtype.Name, subtype.Kind, subtype.ShowInCalendar,
		subtype.ColorID, subtype.Icon, subtype.SortOrder, subtype.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating subtype: %w", err)
	}
	return nil
}

// UpdateSubtype updates an existing subtype by ID.
func (s *SQLiteStore) UpdateSubtype(ctx context.Context, subtype model.Subtype) error {
	if strings.TrimSpace(subtype.Name) == "" {
		return fmt.Errorf("subtype name must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE subtypes SET
			name = ?, kind = ?, show_in_calendar = ?,
			color_id = ?, icon = ?, sort_order = ?
		WHERE id = ?`,
		subtype.Name, subtype.Kind, subtype.ShowInCalendar,
		subtype.ColorID, subtype.Icon, subtype.SortOrder,
		subtype.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subtype %s: %w", subtype.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("subtype %s: %w", subtype.ID, ErrNotFound)
	}
	return nil
}

// DeleteSubtype removes a subtype by ID. The foreign key cascades the
// delete to every todo owned by it.
func (s *SQLiteStore) DeleteSubtype(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM subtypes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting subtype %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("subtype %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetSubtypeByID retrieves a single subtype by ID.
func (s *SQLiteStore) GetSubtypeByID(ctx context.Context, id string) (*model.Subtype, error) {
	var subtype model.Subtype
	err := s.db.GetContext(ctx, &subtype,
		"SELECT id, name, kind, show_in_calendar, color_id, icon, sort_order, created_at FROM subtypes WHERE id = ?",
		id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subtype %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting subtype %s: %w", id, err)
	}
	return &subtype, nil
}

// GetSubtypes returns all subtypes ordered by sort order then name.
func (s *SQLiteStore) GetSubtypes(ctx context.Context) ([]model.Subtype, error) {
	subtypes := []model.Subtype{}
	err := s.db.SelectContext(ctx, &subtypes,
		"SELECT id, name, kind, show_in_calendar, color_id, icon, sort_order, created_at FROM subtypes ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("listing subtypes: %w", err)
	}
	return subtypes, nil
}
