// Package engine implements the recurrence and calendar-materialization
// core: deciding which todos appear on a given calendar day, counting
// tasks per day, and running the completion state machine that splits
// recurring templates from their per-day completion instances.
package engine

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/nvhoang/dayplan/internal/model"
)

// RuleMatches reports whether a recurrence pattern of the given kind,
// anchored on anchor's calendar day, lands on target's calendar day.
// Time-of-day is stripped from every input before comparison.
//
// The rule never matches before its own anchor day, and never after the
// end day when one is given. Non-recurring kinds (none, dueDate,
// oneTime) always return false here; they are resolved by IsVisible
// through direct date comparison instead.
//
// Monthly rules anchored on day 29-31 simply skip months that are too
// short, and a yearly rule anchored on Feb 29 lands only in leap years.
func RuleMatches(kind model.RecurringType, anchor time.Time, end *time.Time, target time.Time) bool {
	if !kind.Recurs() {
		return false
	}

	day := model.DayOf(target)
	start := model.DayOf(anchor)
	if day.Before(start) {
		return false
	}
	if end != nil && day.After(model.DayOf(*end)) {
		return false
	}

	var freq rrule.Frequency
	switch kind {
	case model.RecurringDaily:
		freq = rrule.DAILY
	case model.RecurringWeekly:
		freq = rrule.WEEKLY
	case model.RecurringMonthly:
		freq = rrule.MONTHLY
	case model.RecurringYearly:
		freq = rrule.YEARLY
	}

	// Range bounds were handled above, so the rule itself is unbounded.
	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: start})
	if err != nil {
		return false
	}

	return len(r.Between(day, day, true)) > 0
}

// NextOccurrence returns the due date one recurrence unit after from,
// using calendar arithmetic. It is the step a caller needs to roll a
// completed occurrence forward to its next pending date.
func NextOccurrence(kind model.RecurringType, from time.Time) time.Time {
	switch kind {
	case model.RecurringDaily:
		return from.AddDate(0, 0, 1)
	case model.RecurringWeekly:
		return from.AddDate(0, 0, 7)
	case model.RecurringMonthly:
		return from.AddDate(0, 1, 0)
	case model.RecurringYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}
