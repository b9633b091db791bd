package engine

import (
	"sort"
	"time"

	"github.com/nvhoang/dayplan/internal/model"
)

// StatusFilter narrows a materialized list by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

func (f StatusFilter) pass(t *model.Todo) bool {
	switch f {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

// TypeFilter narrows a materialized list by the owning subtype's kind.
type TypeFilter string

const (
	TypeAll    TypeFilter = "all"
	TypeHabits TypeFilter = "habits"
	TypePlans  TypeFilter = "plans"
	TypeLists  TypeFilter = "lists"
)

func (f TypeFilter) pass(t *model.Todo) bool {
	switch f {
	case TypeHabits:
		return t.SubtypeKind == model.SubtypeHabit
	case TypePlans:
		return t.SubtypeKind == model.SubtypePlan
	case TypeLists:
		return t.SubtypeKind == model.SubtypeList
	}
	return true
}

// VisibleTodos materializes the ordered list of todos visible on the
// target calendar day. It makes a single pass over all: completion
// instances are handled first, building the coverage set as a side
// effect, then everything else is resolved against that set. Templates
// already covered by an instance are excluded again after the full set
// is known, since pass order over an unordered collection would
// otherwise matter.
//
// now is a single snapshot used as the sort fallback for todos with
// neither due time nor due date; callers must reuse one value per
// render so repeated sorts never reorder.
func VisibleTodos(all []model.Todo, target, today, now time.Time, status StatusFilter, typ TypeFilter) []model.Todo {
	cov := make(Coverage)
	visible := make([]model.Todo, 0, len(all))
	rest := make([]*model.Todo, 0, len(all))

	for i := range all {
		t := &all[i]
		if !t.ShowInCalendar {
			continue
		}
		if t.IsInstance() {
			cov.add(t)
			if IsVisible(t, target, today, cov) && status.pass(t) && typ.pass(t) {
				visible = append(visible, *t)
			}
			continue
		}
		rest = append(rest, t)
	}

	for _, t := range rest {
		if !IsVisible(t, target, today, cov) {
			continue
		}
		if t.IsTemplate() && cov.Covered(t.ID, target) {
			continue
		}
		if !status.pass(t) || !typ.pass(t) {
			continue
		}
		visible = append(visible, *t)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return effectiveTime(&visible[i], now).Before(effectiveTime(&visible[j], now))
	})
	return visible
}

// effectiveTime is the sort key: due time if present, else due date,
// else the shared now snapshot.
func effectiveTime(t *model.Todo, now time.Time) time.Time {
	if t.DueTime != nil {
		return *t.DueTime
	}
	if t.DueDate != nil {
		return *t.DueDate
	}
	return now
}

// TaskCount returns how many todos are visible on the target day,
// ignoring status and type filters. Same single-pass coverage logic as
// VisibleTodos, without building the list; used for per-day calendar
// badges.
func TaskCount(all []model.Todo, target, today time.Time) int {
	cov := make(Coverage)
	count := 0
	rest := make([]*model.Todo, 0, len(all))

	for i := range all {
		t := &all[i]
		if !t.ShowInCalendar {
			continue
		}
		if t.IsInstance() {
			cov.add(t)
			if IsVisible(t, target, today, cov) {
				count++
			}
			continue
		}
		rest = append(rest, t)
	}

	for _, t := range rest {
		if !IsVisible(t, target, today, cov) {
			continue
		}
		if t.IsTemplate() && cov.Covered(t.ID, target) {
			continue
		}
		count++
	}

	return count
}

// DayCounts returns TaskCount for each of days consecutive calendar
// days starting at start. O(days x len(all)), which is fine at
// personal-data scale for a week strip or a month grid.
func DayCounts(all []model.Todo, start time.Time, days int, today time.Time) []int {
	counts := make([]int, days)
	day := model.DayOf(start)
	for i := 0; i < days; i++ {
		counts[i] = TaskCount(all, day, today)
		day = day.AddDate(0, 0, 1)
	}
	return counts
}
