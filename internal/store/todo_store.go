package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvhoang/dayplan/internal/model"
)

// todoColumns is the select list shared by every todo query; the LEFT
// JOIN populates SubtypeKind for the materializer's type filter.
const todoColumns = `
	t.id, t.title, t.description, t.due_date, t.due_time,
	t.completed, t.completed_at, t.starred, t.reminder_enabled,
	t.recurring_type, t.recurrence_end_date, t.show_in_calendar,
	t.sort_order, t.parent_recurring_todo_id, t.subtype_id,
	t.color_id, t.texture_id, t.flag_color, t.created_at,
	COALESCE(s.kind, '') AS subtype_kind`

const todoFrom = ` FROM todos t LEFT JOIN subtypes s ON s.id = t.subtype_id`

// CreateTodo inserts a new todo. Generates a UUID if ID is empty and
// defaults the sort order to max+1.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) error {
	if strings.TrimSpace(todo.Title) == "" {
		return fmt.Errorf("todo title must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	if todo.RecurringType == "" {
		todo.RecurringType = model.RecurringNone
	}

	if todo.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM todos")
		if err != nil {
			return fmt.Errorf("getting max sort_order: %w", err)
		}
		todo.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, title, description, due_date, due_time,
			completed, completed_at, starred, reminder_enabled,
			recurring_type, recurrence_end_date, show_in_calendar,
			sort_order, parent_recurring_todo_id, subtype_id,
			color_id, texture_id, flag_color, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.Description, todo.DueDate, todo.DueTime,
		todo.Completed, todo.CompletedAt, todo.Starred, todo.ReminderEnabled,
		todo.RecurringType, todo.RecurrenceEndDate, todo.ShowInCalendar,
		todo.SortOrder, todo.ParentRecurringTodoID, todo.SubtypeID,
		todo.ColorID, todo.TextureID, todo.FlagColor, todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return nil
}

// UpdateTodo rewrites an existing todo's editable fields by ID.
// Completion instances are immutable and cannot be updated; completion
// state changes go through SetCompleted.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo model.Todo) error {
	if strings.TrimSpace(todo.Title) == "" {
		return fmt.Errorf("todo title must not be empty")
	}

	var parentID *string
	err := s.db.GetContext(ctx, &parentID,
		"SELECT parent_recurring_todo_id FROM todos WHERE id = ?", todo.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("todo %s: %w", todo.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading todo %s: %w", todo.ID, err)
	}
	if parentID != nil {
		return fmt.Errorf("todo %s is a completion instance and cannot be edited", todo.ID)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE todos SET
			title = ?, description = ?, due_date = ?, due_time = ?,
			starred = ?, reminder_enabled = ?, recurring_type = ?,
			recurrence_end_date = ?, show_in_calendar = ?, sort_order = ?,
			subtype_id = ?, color_id = ?, texture_id = ?, flag_color = ?
		WHERE id = ?`,
		todo.Title, todo.Description, todo.DueDate, todo.DueTime,
		todo.Starred, todo.ReminderEnabled, todo.RecurringType,
		todo.RecurrenceEndDate, todo.ShowInCalendar, todo.SortOrder,
		todo.SubtypeID, todo.ColorID, todo.TextureID, todo.FlagColor,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", todo.ID, err)
	}
	return nil
}

// DeleteTodo removes a todo by ID. Deleting a template cascades to its
// completion instances.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTodoByID retrieves a single todo by ID.
func (s *SQLiteStore) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	var todo model.Todo
	err := s.db.GetContext(ctx, &todo,
		"SELECT"+todoColumns+todoFrom+" WHERE t.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return &todo, nil
}

// GetTodos returns todos matching the filter, joined with their
// subtype's kind, ordered by sort order then creation time.
func (s *SQLiteStore) GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	var conds []string
	var args []any

	if filter.SubtypeID != nil {
		conds = append(conds, "t.subtype_id = ?")
		args = append(args, *filter.SubtypeID)
	}
	if filter.Kind != nil {
		conds = append(conds, "s.kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.ShowInCalendar != nil {
		conds = append(conds, "t.show_in_calendar = ?")
		args = append(args, *filter.ShowInCalendar)
	}
	if filter.Completed != nil {
		conds = append(conds, "t.completed = ?")
		args = append(args, *filter.Completed)
	}

	query := "SELECT" + todoColumns + todoFrom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.sort_order, t.created_at"

	todos := []model.Todo{}
	if err := s.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// FindInstanceForDay returns the completion instance recorded for the
// template on day's calendar day, or (nil, nil) when none exists.
func (s *SQLiteStore) FindInstanceForDay(ctx context.Context, templateID string, day time.Time) (*model.Todo, error) {
	var todo model.Todo
	err := s.db.GetContext(ctx, &todo,
		"SELECT"+todoColumns+todoFrom+
			" WHERE t.parent_recurring_todo_id = ? AND date(t.due_date) = ?",
		templateID, model.DayOf(day).Format("2006-01-02"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding instance for template %s: %w", templateID, err)
	}
	return &todo, nil
}

// ReplaceTodo inserts create and deletes the todo with deleteID in a
// single transaction, so a one-time completion never leaves both (or
// neither) record behind.
func (s *SQLiteStore) ReplaceTodo(ctx context.Context, create model.Todo, deleteID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTodoTx(ctx, tx, create); err != nil {
		return fmt.Errorf("inserting replacement todo: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", deleteID)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", deleteID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", deleteID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

// SetCompleted toggles the completed flag and completed-at stamp on a
// todo without touching any other field.
func (s *SQLiteStore) SetCompleted(ctx context.Context, id string, completed bool, completedAt *time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET completed = ?, completed_at = ? WHERE id = ?",
		completed, completedAt, id)
	if err != nil {
		return fmt.Errorf("setting completed on todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

func insertTodoTx(ctx context.Context, tx *sqlx.Tx, todo model.Todo) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO todos (
			id, title, description, due_date, due_time,
			completed, completed_at, starred, reminder_enabled,
			recurring_type, recurrence_end_date, show_in_calendar,
			sort_order, parent_recurring_todo_id, subtype_id,
			color_id, texture_id, flag_color, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.Description, todo.DueDate, todo.DueTime,
		todo.Completed, todo.CompletedAt, todo.Starred, todo.ReminderEnabled,
		todo.RecurringType, todo.RecurrenceEndDate, todo.ShowInCalendar,
		todo.SortOrder, todo.ParentRecurringTodoID, todo.SubtypeID,
		todo.ColorID, todo.TextureID, todo.FlagColor, todo.CreatedAt,
	)
	return err
}
