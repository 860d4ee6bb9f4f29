package timer

import "time"

// NewWithClock exposes the clock injection for tests.
func NewWithClock(now func() time.Time) *Tracker {
	return newWithClock(now)
}
