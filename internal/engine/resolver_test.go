package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nvhoang/dayplan/internal/engine"
	"github.com/nvhoang/dayplan/internal/model"
)

func strPtr(s string) *string { return &s }

func template(id string, kind model.RecurringType, anchor time.Time) model.Todo {
	return model.Todo{
		ID:             id,
		Title:          "template " + id,
		DueDate:        &anchor,
		RecurringType:  kind,
		ShowInCalendar: true,
	}
}

func instanceOf(id, templateID string, onDay time.Time) model.Todo {
	completedAt := onDay
	return model.Todo{
		ID:                    id,
		Title:                 "instance " + id,
		DueDate:               &onDay,
		Completed:             true,
		CompletedAt:           &completedAt,
		RecurringType:         model.RecurringNone,
		ShowInCalendar:        true,
		ParentRecurringTodoID: strPtr(templateID),
	}
}

func TestIsVisibleInstanceMatchesOwnDay(t *testing.T) {
	today := day(2025, time.March, 15)
	inst := instanceOf("i1", "t1", day(2025, time.March, 15))

	assert.True(t, engine.IsVisible(&inst, day(2025, time.March, 15), today, nil))
	assert.False(t, engine.IsVisible(&inst, day(2025, time.March, 16), today, nil))
}

func TestIsVisibleInstanceWithoutDueDate(t *testing.T) {
	inst := instanceOf("i1", "t1", day(2025, time.March, 15))
	inst.DueDate = nil

	assert.False(t, engine.IsVisible(&inst, day(2025, time.March, 15), day(2025, time.March, 15), nil))
}

func TestIsVisibleDueDateKind(t *testing.T) {
	today := day(2025, time.June, 1)
	due := day(2025, time.June, 10)
	todo := model.Todo{ID: "d1", Title: "dentist", DueDate: &due, RecurringType: model.RecurringDueDate, ShowInCalendar: true}

	assert.True(t, engine.IsVisible(&todo, day(2025, time.June, 10), today, nil))
	assert.False(t, engine.IsVisible(&todo, day(2025, time.June, 11), today, nil))
	assert.False(t, engine.IsVisible(&todo, day(2025, time.June, 9), today, nil))

	// Completion does not move a fixed-date item.
	todo.Completed = true
	assert.True(t, engine.IsVisible(&todo, day(2025, time.June, 10), today, nil))
}

func TestIsVisibleNoneKindBehavesLikeDueDate(t *testing.T) {
	today := day(2025, time.June, 1)
	due := day(2025, time.June, 10)
	todo := model.Todo{ID: "n1", Title: "legacy", DueDate: &due, RecurringType: model.RecurringNone, ShowInCalendar: true}

	assert.True(t, engine.IsVisible(&todo, day(2025, time.June, 10), today, nil))
	assert.False(t, engine.IsVisible(&todo, day(2025, time.June, 11), today, nil))
}

func TestIsVisibleOneTimeFloatsForwardUntilCompleted(t *testing.T) {
	today := day(2025, time.June, 1)
	due := day(2025, time.January, 1)
	todo := model.Todo{ID: "o1", Title: "someday", DueDate: &due, RecurringType: model.RecurringOneTime, ShowInCalendar: true}

	assert.True(t, engine.IsVisible(&todo, today, today, nil), "floats onto today")
	assert.True(t, engine.IsVisible(&todo, day(2025, time.July, 20), today, nil), "floats onto the future")
	assert.False(t, engine.IsVisible(&todo, day(2025, time.May, 31), today, nil), "never in the past")
	assert.False(t, engine.IsVisible(&todo, due, today, nil), "not even on its own original date")
}

func TestIsVisibleOneTimeFreezesOnCompletionDay(t *testing.T) {
	today := day(2025, time.June, 5)
	completedOn := day(2025, time.June, 1)
	todo := model.Todo{
		ID: "o1", Title: "someday", DueDate: &completedOn, Completed: true,
		CompletedAt: &completedOn, RecurringType: model.RecurringOneTime, ShowInCalendar: true,
	}

	assert.True(t, engine.IsVisible(&todo, completedOn, today, nil))
	assert.False(t, engine.IsVisible(&todo, today, today, nil), "no longer floats once completed")
}

func TestIsVisibleTemplate(t *testing.T) {
	today := day(2025, time.March, 15)
	tpl := template("t1", model.RecurringDaily, day(2025, time.January, 1))

	// Scenario: daily template anchored 2025-01-01, no instance yet.
	assert.True(t, engine.IsVisible(&tpl, day(2025, time.March, 15), today, nil))
	assert.False(t, engine.IsVisible(&tpl, day(2024, time.December, 31), today, nil))
}

func TestIsVisibleTemplateSuppressedByCoverage(t *testing.T) {
	today := day(2025, time.March, 15)
	tpl := template("t1", model.RecurringDaily, day(2025, time.January, 1))
	inst := instanceOf("i1", "t1", day(2025, time.March, 15))
	cov := engine.CoverageOf([]model.Todo{inst})

	assert.False(t, engine.IsVisible(&tpl, day(2025, time.March, 15), today, cov))
	assert.True(t, engine.IsVisible(&tpl, day(2025, time.March, 16), today, cov), "only the covered day is hidden")
	assert.True(t, engine.IsVisible(&inst, day(2025, time.March, 15), today, cov), "the instance shows instead")
}

func TestIsVisibleTemplateWithoutDueDate(t *testing.T) {
	tpl := template("t1", model.RecurringDaily, day(2025, time.January, 1))
	tpl.DueDate = nil

	assert.False(t, engine.IsVisible(&tpl, day(2025, time.March, 15), day(2025, time.March, 15), nil))
}

func TestIsVisibleIsIdempotent(t *testing.T) {
	today := day(2025, time.March, 15)
	tpl := template("t1", model.RecurringWeekly, day(2025, time.January, 1))
	cov := engine.CoverageOf(nil)

	for _, target := range []time.Time{day(2025, time.March, 12), day(2025, time.March, 13)} {
		first := engine.IsVisible(&tpl, target, today, cov)
		second := engine.IsVisible(&tpl, target, today, cov)
		assert.Equal(t, first, second)
	}
}

func TestCoverageUsesCalendarDayBuckets(t *testing.T) {
	onDay := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	inst := instanceOf("i1", "t1", onDay)
	cov := engine.CoverageOf([]model.Todo{inst})

	assert.True(t, cov.Covered("t1", day(2025, time.March, 15)))
	assert.True(t, cov.Covered("t1", time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)))
	assert.False(t, cov.Covered("t1", day(2025, time.March, 16)))
	assert.False(t, cov.Covered("t2", day(2025, time.March, 15)))
}
