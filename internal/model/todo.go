package model

import "time"

// RecurringType describes how (or whether) a todo repeats.
type RecurringType string

const (
	// RecurringNone is a plain non-recurring item. Legacy rows may carry
	// it together with a due date; visibility then matches RecurringDueDate.
	RecurringNone RecurringType = "none"

	// RecurringDueDate is a one-off fixed to a single explicit calendar
	// date, shown only on that date regardless of completion state.
	RecurringDueDate RecurringType = "dueDate"

	// RecurringOneTime floats onto every present and future day until
	// completed, then freezes on its completion date.
	RecurringOneTime RecurringType = "oneTime"

	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
	RecurringYearly  RecurringType = "yearly"
)

// Recurs reports whether the type describes a repeating schedule
// (daily, weekly, monthly or yearly).
func (r RecurringType) Recurs() bool {
	switch r {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// Todo is a single task item. The same record shape serves three roles,
// distinguished by its fields rather than by separate types:
//
//   - a plain item (RecurringType none/dueDate/oneTime, no parent)
//   - a template (RecurringType daily..yearly, no parent), which is never
//     completed in place and instead spawns completion instances
//   - a completion instance (ParentRecurringTodoID set), recording that
//     its template was completed on DueDate's day
type Todo struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// DueDate and DueTime are stored independently: DueDate carries the
	// calendar day, DueTime the time of day. CombinedDueAt overlays them.
	DueDate *time.Time `json:"due_date,omitempty" db:"due_date"`
	DueTime *time.Time `json:"due_time,omitempty" db:"due_time"`

	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	Starred         bool `json:"starred" db:"starred"`
	ReminderEnabled bool `json:"reminder_enabled" db:"reminder_enabled"`

	RecurringType     RecurringType `json:"recurring_type" db:"recurring_type"`
	RecurrenceEndDate *time.Time    `json:"recurrence_end_date,omitempty" db:"recurrence_end_date"`

	ShowInCalendar bool `json:"show_in_calendar" db:"show_in_calendar"`
	SortOrder      int  `json:"sort_order" db:"sort_order"`

	// ParentRecurringTodoID links a completion instance to its template.
	// It is nil on everything that is not a completion instance.
	ParentRecurringTodoID *string `json:"parent_recurring_todo_id,omitempty" db:"parent_recurring_todo_id"`

	SubtypeID *string `json:"subtype_id,omitempty" db:"subtype_id"`

	ColorID   int    `json:"color_id" db:"color_id"`
	TextureID int    `json:"texture_id" db:"texture_id"`
	FlagColor string `json:"flag_color" db:"flag_color"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// SubtypeKind is populated by queries that join with subtypes;
	// empty when the todo has no subtype.
	SubtypeKind SubtypeKind `json:"subtype_kind,omitempty" db:"subtype_kind"`
}

// IsInstance reports whether the todo is a completion instance of a
// recurring template.
func (t *Todo) IsInstance() bool {
	return t.ParentRecurringTodoID != nil
}

// IsTemplate reports whether the todo is a recurring template: it has a
// repeating schedule and is not itself a completion instance.
func (t *Todo) IsTemplate() bool {
	return t.RecurringType.Recurs() && t.ParentRecurringTodoID == nil
}

// CombinedDueAt derives the effective due instant by overlaying the
// time-of-day components of DueTime onto the date components of DueDate.
// When DueTime is absent the combined value equals DueDate. Returns nil
// when DueDate is absent.
func (t *Todo) CombinedDueAt() *time.Time {
	if t.DueDate == nil {
		return nil
	}
	if t.DueTime == nil {
		d := *t.DueDate
		return &d
	}
	combined := CombineDayTime(*t.DueDate, *t.DueTime)
	return &combined
}
