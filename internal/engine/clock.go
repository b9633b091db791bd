package engine

import (
	"time"

	"github.com/nvhoang/dayplan/internal/model"
)

// Clock supplies the current instant and the current calendar day.
// Every engine function that needs "now" or "today" takes it from here
// instead of the system clock, so tests can pin time.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Today() time.Time { return model.DayOf(time.Now()) }

// FixedClock always reports the same instant. For tests.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

func (c FixedClock) Today() time.Time { return model.DayOf(c.At) }
