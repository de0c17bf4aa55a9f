// Package sched provides the single-threaded task and timer loop that hosts
// pump from their UI thread. Callbacks never run concurrently with each
// other: they run inside Process, on whichever goroutine calls it.
package sched

import (
	"sort"
	"sync"
	"time"
)

// timer represents a scheduled callback (one-shot or repeating).
type timer struct {
	id       int
	callback func()
	dueTime  time.Time
	interval time.Duration // 0 for one-shot
	cleared  bool
}

// Loop queues tasks and timers until Process runs them. Posting is safe from
// any goroutine; running is not.
type Loop struct {
	timers map[int]*timer
	tasks  []func()
	nextID int
	now    func() time.Time
	mu     sync.Mutex
}

// NewLoop creates a loop that reads the wall clock.
func NewLoop() *Loop {
	return NewLoopWithClock(time.Now)
}

// NewLoopWithClock creates a loop with an injected clock, for tests.
func NewLoopWithClock(now func() time.Time) *Loop {
	return &Loop{
		timers: make(map[int]*timer),
		nextID: 1,
		now:    now,
	}
}

// Now returns the loop's notion of the current time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// Post queues fn to run on the next Process call.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, fn)
}

// SetTimeout schedules a one-time callback and returns its id.
func (l *Loop) SetTimeout(delay time.Duration, fn func()) int {
	return l.schedule(delay, 0, fn)
}

// SetInterval schedules a repeating callback and returns its id.
func (l *Loop) SetInterval(interval time.Duration, fn func()) int {
	return l.schedule(interval, interval, fn)
}

func (l *Loop) schedule(delay, interval time.Duration, fn func()) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.timers[id] = &timer{
		id:       id,
		callback: fn,
		dueTime:  l.now().Add(delay),
		interval: interval,
	}
	return id
}

// ClearTimer cancels a timer by id. Unknown ids are ignored.
func (l *Loop) ClearTimer(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[id]; ok {
		t.cleared = true
		delete(l.timers, id)
	}
}

// Process runs every queued task, then every timer that is due, and returns
// the number of callbacks run. Repeating timers fire at most once per call.
func (l *Loop) Process() int {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	ran := 0
	for _, fn := range tasks {
		fn()
		ran++
	}

	l.mu.Lock()
	now := l.now()
	var due []*timer
	for _, t := range l.timers {
		if !t.cleared && !now.Before(t.dueTime) {
			due = append(due, t)
		}
	}
	l.mu.Unlock()

	// Map iteration order is random; fire in due order, then id order.
	sort.Slice(due, func(i, j int) bool {
		if due[i].dueTime.Equal(due[j].dueTime) {
			return due[i].id < due[j].id
		}
		return due[i].dueTime.Before(due[j].dueTime)
	})

	for _, t := range due {
		l.mu.Lock()
		cleared := t.cleared
		l.mu.Unlock()
		if cleared {
			continue
		}

		t.callback()
		ran++

		l.mu.Lock()
		if t.interval > 0 && !t.cleared {
			t.dueTime = now.Add(t.interval)
		} else {
			delete(l.timers, t.id)
		}
		l.mu.Unlock()
	}
	return ran
}

// HasPending reports whether any task or timer is outstanding.
func (l *Loop) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.timers) > 0
}

// NextDue returns the time until the next timer is due, 0 if one is already
// due or tasks are queued, and -1 if nothing is scheduled.
func (l *Loop) NextDue() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) > 0 {
		return 0
	}
	if len(l.timers) == 0 {
		return -1
	}

	now := l.now()
	var minDuration time.Duration = -1
	for _, t := range l.timers {
		if t.cleared {
			continue
		}
		d := t.dueTime.Sub(now)
		if d <= 0 {
			return 0
		}
		if minDuration < 0 || d < minDuration {
			minDuration = d
		}
	}
	return minDuration
}
