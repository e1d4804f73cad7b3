// Package sched runs named deferred tasks over an injectable clock. A task
// scheduled under a name already pending replaces it, which is how edits
// debounce history recording and rebalancing.
package sched

import (
	"time"
)

// Clock supplies current time to the scheduler.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns wall clock.
func RealClock() Clock {
	return realClock{}
}

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves clock forward by d and returns new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// Set moves clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}
