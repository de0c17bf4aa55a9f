package sched

import "time"

// Timer is a restartable periodic tick owned by one component. It rides on a
// Loop but keeps its own enabled state, so Start and Stop are idempotent.
type Timer struct {
	loop     *Loop
	interval time.Duration
	onTick   func()
	id       int
	enabled  bool
	disposed bool
}

// NewTimer creates a stopped timer that calls onTick every interval once
// started.
func NewTimer(loop *Loop, interval time.Duration, onTick func()) *Timer {
	return &Timer{loop: loop, interval: interval, onTick: onTick}
}

// Start begins ticking. Starting an enabled or disposed timer does nothing.
func (t *Timer) Start() {
	if t.enabled || t.disposed {
		return
	}
	t.enabled = true
	t.id = t.loop.SetInterval(t.interval, t.tick)
}

func (t *Timer) tick() {
	if t.enabled {
		t.onTick()
	}
}

// Stop halts ticking.
func (t *Timer) Stop() {
	if !t.enabled {
		return
	}
	t.enabled = false
	t.loop.ClearTimer(t.id)
	t.id = 0
}

// Enabled reports whether the timer is ticking.
func (t *Timer) Enabled() bool {
	return t.enabled
}

// Interval returns the tick period.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Dispose stops the timer permanently.
func (t *Timer) Dispose() {
	t.Stop()
	t.disposed = true
}
