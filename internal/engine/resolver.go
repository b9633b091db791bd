package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/nvhoang/dayplan/internal/logger"
	"github.com/nvhoang/dayplan/internal/model"
)

type coverageKey struct {
	templateID string
	day        time.Time
}

// Coverage records which (template, day) pairs already have a completion
// instance. A covered template is suppressed on that day so the list
// never shows both the template and its instance.
type Coverage map[coverageKey]struct{}

// CoverageOf builds the coverage set from the completion instances in
// todos in a single pass. Non-instances are ignored.
func CoverageOf(todos []model.Todo) Coverage {
	cov := make(Coverage)
	for i := range todos {
		cov.add(&todos[i])
	}
	return cov
}

func (c Coverage) add(t *model.Todo) {
	if !t.IsInstance() || t.DueDate == nil {
		return
	}
	c[coverageKey{*t.ParentRecurringTodoID, model.DayOf(*t.DueDate)}] = struct{}{}
}

// Covered reports whether a completion instance exists for the template
// on the given day.
func (c Coverage) Covered(templateID string, day time.Time) bool {
	_, ok := c[coverageKey{templateID, model.DayOf(day)}]
	return ok
}

// IsVisible decides whether a single todo belongs on the target calendar
// day. today is the current calendar day (it only matters for oneTime
// items, which float forward until completed); cov supplies the
// completion instances that suppress covered templates.
//
// The predicate is pure: identical inputs always produce identical
// results. A template or instance without a due date is treated as
// malformed and is never visible.
func IsVisible(todo *model.Todo, target, today time.Time, cov Coverage) bool {
	switch {
	case todo.IsInstance():
		if todo.DueDate == nil {
			logger.Debug("completion instance has no due date", zap.String("todo_id", todo.ID))
			return false
		}
		return model.SameDay(*todo.DueDate, target)

	case todo.RecurringType == model.RecurringOneTime:
		if todo.Completed {
			// Completion rewrote DueDate to the completion day; the item
			// stays frozen there.
			return todo.DueDate != nil && model.SameDay(*todo.DueDate, target)
		}
		return !model.DayOf(target).Before(model.DayOf(today))

	case todo.IsTemplate():
		if todo.DueDate == nil {
			logger.Debug("recurring template has no due date", zap.String("todo_id", todo.ID))
			return false
		}
		if !RuleMatches(todo.RecurringType, *todo.DueDate, todo.RecurrenceEndDate, target) {
			return false
		}
		return !cov.Covered(todo.ID, target)

	default:
		// dueDate kind, and the legacy none kind: fixed to one day.
		return todo.DueDate != nil && model.SameDay(*todo.DueDate, target)
	}
}
