package model

import "time"

// SubtypeKind tags a subtype as one of the three top-level categories.
type SubtypeKind string

const (
	SubtypeHabit SubtypeKind = "habit"
	SubtypePlan  SubtypeKind = "plan"
	SubtypeList  SubtypeKind = "list"
)

// Subtype is a grouping container for todos (a Habit, Plan or List).
// Deleting a subtype cascades to its todos.
type Subtype struct {
	ID   string      `json:"id" db:"id"`
	Name string      `json:"name" db:"name"`
	Kind SubtypeKind `json:"kind" db:"kind"`

	// ShowInCalendar is the informational default applied to new todos
	// created inside this subtype; each todo carries its own flag.
	ShowInCalendar bool `json:"show_in_calendar" db:"show_in_calendar"`

	ColorID   int       `json:"color_id" db:"color_id"`
	Icon      string    `json:"icon" db:"icon"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
