// Package timer tracks total and per-step elapsed time for a provisioning run.
package timer

import (
	"sync"
	"time"
)

// Timer measures the elapsed time of a run and of its current step.
type Timer interface {
	// Start resets the timer and begins measuring the whole run.
	Start()
	// NewStage marks the beginning of a new step.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current step.
	GetTiming() (time.Duration, time.Duration)
}

// Tracker is the default Timer implementation.
type Tracker struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	stageStart time.Time
}

// New returns a started Tracker.
func New() *Tracker {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Tracker {
	tracker := &Tracker{now: now}
	tracker.Start()

	return tracker
}

// Start implements Timer.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = t.now()
	t.stageStart = t.start
}

// NewStage implements Timer.
func (t *Tracker) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stageStart = t.now()
}

// GetTiming implements Timer.
func (t *Tracker) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.now()

	return current.Sub(t.start), current.Sub(t.stageStart)
}
