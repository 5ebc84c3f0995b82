package engine

import "sync/atomic"

// Clock counts simulated days.
//
// Day 0 is the state before the first tick. Each call to Advance returns
// the day just reached. The counter is logical; wall-clock time is never
// consulted.
type Clock struct {
	day atomic.Int64
}

// NewClock creates a clock at day 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at a given day.
func NewClockAt(day int64) *Clock {
	c := &Clock{}
	c.day.Store(day)
	return c
}

// Advance moves to the next day and returns it.
func (c *Clock) Advance() int64 {
	return c.day.Add(1)
}

// Current returns the current day without advancing.
func (c *Clock) Current() int64 {
	return c.day.Load()
}

// Reset moves the clock back to day 0.
func (c *Clock) Reset() {
	c.day.Store(0)
}
