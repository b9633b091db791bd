package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvhoang/dayplan/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist,
// including stale references to todos deleted since they were loaded.
var ErrNotFound = errors.New("record not found")

// TodoFilter narrows todo queries. Nil fields mean "any".
type TodoFilter struct {
	SubtypeID      *string
	Kind           *model.SubtypeKind
	ShowInCalendar *bool
	Completed      *bool
}

// Store defines the persistence interface for subtypes and todos.
// Todos are returned joined with their subtype's kind and ordered by
// sort order, then creation time.
type Store interface {
	// === Subtype CRUD ===

	CreateSubtype(ctx context.Context, subtype model.Subtype) error
	UpdateSubtype(ctx context.Context, subtype model.Subtype) error
	// DeleteSubtype removes a subtype and cascades to its todos.
	DeleteSubtype(ctx context.Context, id string) error
	GetSubtypeByID(ctx context.Context, id string) (*model.Subtype, error)
	GetSubtypes(ctx context.Context) ([]model.Subtype, error)

	// === Todo CRUD ===

	CreateTodo(ctx context.Context, todo model.Todo) error
	// UpdateTodo rewrites an existing todo's editable fields. Completion
	// instances are immutable; updating one fails.
	UpdateTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)

	// === Completion transition support ===

	// FindInstanceForDay returns the completion instance for
	// (templateID, day's calendar day), or (nil, nil) when none exists.
	FindInstanceForDay(ctx context.Context, templateID string, day time.Time) (*model.Todo, error)
	// ReplaceTodo inserts create and deletes deleteID atomically.
	ReplaceTodo(ctx context.Context, create model.Todo, deleteID string) error
	// SetCompleted toggles the completed flag and completed-at stamp.
	SetCompleted(ctx context.Context, id string, completed bool, completedAt *time.Time) error

	Close() error
}
