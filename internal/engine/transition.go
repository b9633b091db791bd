package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvhoang/dayplan/internal/logger"
	"github.com/nvhoang/dayplan/internal/model"
)

// TodoWriter is the slice of the store the completion transition needs.
// *store.SQLiteStore satisfies it.
type TodoWriter interface {
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	CreateTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completed bool, completedAt *time.Time) error
	// FindInstanceForDay returns the completion instance for
	// (templateID, day's calendar day), or (nil, nil) when none exists.
	FindInstanceForDay(ctx context.Context, templateID string, day time.Time) (*model.Todo, error)
	// ReplaceTodo inserts create and deletes the row with deleteID in
	// one transaction.
	ReplaceTodo(ctx context.Context, create model.Todo, deleteID string) error
}

// TransitionResult reports which completion branch fired, so callers
// can update optimistically without re-querying.
type TransitionResult struct {
	// CreatedInstance is the new record persisted by the oneTime or
	// template branch; nil when nothing was created.
	CreatedInstance *model.Todo
	// DeletedOriginal is true when the acted-on record itself was
	// deleted (the oneTime replace).
	DeletedOriginal bool
	// DeletedInstance is true when an existing completion instance was
	// removed instead (toggling a recurring day off).
	DeletedInstance bool
	// MutatedInPlace is true when the record's completed flag was
	// toggled directly.
	MutatedInPlace bool
}

// Completer is the single entry point for marking todos complete or
// incomplete. Every call site goes through it so the persisted shape of
// "completed X on day D" is the same everywhere.
//
// Writes are serialized by an internal mutex: the template branch is a
// check-then-act (look up the day's instance, then create or delete),
// and two concurrent completes for the same template and day must not
// both pass the existence check.
type Completer struct {
	store TodoWriter
	clock Clock
	mu    sync.Mutex
}

// NewCompleter builds a Completer over the given store and clock.
func NewCompleter(store TodoWriter, clock Clock) *Completer {
	return &Completer{store: store, clock: clock}
}

// Complete marks todo done for contextDate's calendar day, which is the
// day the user is viewing and may be in the past. Branches, first match
// wins:
//
//  1. oneTime and not completed: a replacement dated now is inserted,
//     completed, and the original is deleted, so the item freezes on
//     its completion day while any earlier pending copies keep
//     floating.
//  2. recurring template and not completed: a completion instance for
//     contextDate's day is created and the template is left untouched.
//     If that day already has an instance, it is deleted instead, so a
//     double-tap toggles rather than duplicating.
//  3. anything else: the completed flag toggles in place.
//
// The todo is re-read from the store first; acting on a stale reference
// fails with the store's not-found error instead of writing blind.
func (c *Completer) Complete(ctx context.Context, todo *model.Todo, contextDate time.Time) (TransitionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.store.GetTodoByID(ctx, todo.ID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("loading todo %s: %w", todo.ID, err)
	}

	switch {
	case current.RecurringType == model.RecurringOneTime && !current.Completed:
		return c.completeOneTime(ctx, current)
	case current.IsTemplate() && !current.Completed:
		return c.completeTemplate(ctx, current, contextDate)
	default:
		return c.toggleInPlace(ctx, current)
	}
}

// Uncomplete reverses Complete for contextDate's calendar day: a
// template's covering instance is deleted, anything else has its
// completed flag cleared in place.
func (c *Completer) Uncomplete(ctx context.Context, todo *model.Todo, contextDate time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.store.GetTodoByID(ctx, todo.ID)
	if err != nil {
		return fmt.Errorf("loading todo %s: %w", todo.ID, err)
	}

	if current.IsTemplate() {
		instance, err := c.store.FindInstanceForDay(ctx, current.ID, contextDate)
		if err != nil {
			return fmt.Errorf("looking up instance for todo %s: %w", current.ID, err)
		}
		if instance == nil {
			// Nothing covers the day; nothing to undo.
			return nil
		}
		if err := c.store.DeleteTodo(ctx, instance.ID); err != nil {
			return fmt.Errorf("deleting instance %s: %w", instance.ID, err)
		}
		return nil
	}

	if !current.Completed {
		return nil
	}
	if err := c.store.SetCompleted(ctx, current.ID, false, nil); err != nil {
		return fmt.Errorf("clearing completed on todo %s: %w", current.ID, err)
	}
	return nil
}

func (c *Completer) completeOneTime(ctx context.Context, current *model.Todo) (TransitionResult, error) {
	now := c.clock.Now()

	replacement := *current
	replacement.ID = uuid.New().String()
	dueDate := now
	dueTime := now
	completedAt := now
	replacement.DueDate = &dueDate
	replacement.DueTime = &dueTime
	replacement.Completed = true
	replacement.CompletedAt = &completedAt
	replacement.ReminderEnabled = false
	replacement.RecurrenceEndDate = cloneTime(current.RecurrenceEndDate)
	replacement.SubtypeID = cloneString(current.SubtypeID)
	replacement.CreatedAt = now

	if err := c.store.ReplaceTodo(ctx, replacement, current.ID); err != nil {
		return TransitionResult{}, fmt.Errorf("replacing one-time todo %s: %w", current.ID, err)
	}

	logger.Debug("one-time todo completed",
		zap.String("todo_id", current.ID),
		zap.String("replacement_id", replacement.ID))
	return TransitionResult{CreatedInstance: &replacement, DeletedOriginal: true}, nil
}

func (c *Completer) completeTemplate(ctx context.Context, current *model.Todo, contextDate time.Time) (TransitionResult, error) {
	day := model.DayOf(contextDate)

	existing, err := c.store.FindInstanceForDay(ctx, current.ID, day)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("looking up instance for todo %s: %w", current.ID, err)
	}
	if existing != nil {
		if err := c.store.DeleteTodo(ctx, existing.ID); err != nil {
			return TransitionResult{}, fmt.Errorf("deleting instance %s: %w", existing.ID, err)
		}
		return TransitionResult{DeletedInstance: true}, nil
	}

	now := c.clock.Now()
	completedAt := now
	parentID := current.ID

	instance := model.Todo{
		ID:                    uuid.New().String(),
		Title:                 current.Title,
		Description:           current.Description,
		DueDate:               &day,
		DueTime:               cloneTime(current.DueTime),
		Completed:             true,
		CompletedAt:           &completedAt,
		Starred:               current.Starred,
		ReminderEnabled:       false,
		RecurringType:         model.RecurringNone,
		ShowInCalendar:        current.ShowInCalendar,
		SortOrder:             current.SortOrder,
		ParentRecurringTodoID: &parentID,
		SubtypeID:             cloneString(current.SubtypeID),
		ColorID:               current.ColorID,
		TextureID:             current.TextureID,
		FlagColor:             current.FlagColor,
		CreatedAt:             now,
		SubtypeKind:           current.SubtypeKind,
	}

	if err := c.store.CreateTodo(ctx, instance); err != nil {
		return TransitionResult{}, fmt.Errorf("creating instance for todo %s: %w", current.ID, err)
	}

	logger.Debug("template completed for day",
		zap.String("template_id", current.ID),
		zap.Time("day", day),
		zap.String("instance_id", instance.ID))
	return TransitionResult{CreatedInstance: &instance}, nil
}

func (c *Completer) toggleInPlace(ctx context.Context, current *model.Todo) (TransitionResult, error) {
	completed := !current.Completed
	var completedAt *time.Time
	if completed {
		now := c.clock.Now()
		completedAt = &now
	}

	if err := c.store.SetCompleted(ctx, current.ID, completed, completedAt); err != nil {
		return TransitionResult{}, fmt.Errorf("toggling todo %s: %w", current.ID, err)
	}
	return TransitionResult{MutatedInPlace: true}, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
