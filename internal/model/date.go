package model

import "time"

// DayOf strips the time-of-day from t, returning the calendar day as a
// midnight UTC instant. Every "same calendar day" comparison in the
// codebase goes through this one bucket definition so the resolver, the
// coverage set and the store's instance lookup can never disagree.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// CombineDayTime overlays the time-of-day components of tod onto the
// date components of day.
func CombineDayTime(day, tod time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, day.Location())
}
