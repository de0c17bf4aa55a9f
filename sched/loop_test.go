package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoop() (*Loop, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	return NewLoopWithClock(clock.now), clock
}

func TestLoop_PostRunsOnProcess(t *testing.T) {
	loop, _ := newTestLoop()
	var ran []int
	loop.Post(func() { ran = append(ran, 1) })
	loop.Post(func() { ran = append(ran, 2) })
	assert.True(t, loop.HasPending())
	assert.Equal(t, time.Duration(0), loop.NextDue())

	assert.Equal(t, 2, loop.Process())
	assert.Equal(t, []int{1, 2}, ran)
	assert.False(t, loop.HasPending())
}

func TestLoop_Timeout(t *testing.T) {
	loop, clock := newTestLoop()
	fired := 0
	loop.SetTimeout(100*time.Millisecond, func() { fired++ })

	loop.Process()
	assert.Zero(t, fired)
	assert.Equal(t, 100*time.Millisecond, loop.NextDue())

	clock.advance(100 * time.Millisecond)
	loop.Process()
	assert.Equal(t, 1, fired)

	clock.advance(time.Second)
	loop.Process()
	assert.Equal(t, 1, fired)
	assert.Equal(t, time.Duration(-1), loop.NextDue())
}

func TestLoop_IntervalAndClear(t *testing.T) {
	loop, clock := newTestLoop()
	fired := 0
	id := loop.SetInterval(50*time.Millisecond, func() { fired++ })

	for i := 0; i < 3; i++ {
		clock.advance(50 * time.Millisecond)
		loop.Process()
	}
	assert.Equal(t, 3, fired)

	loop.ClearTimer(id)
	clock.advance(50 * time.Millisecond)
	loop.Process()
	assert.Equal(t, 3, fired)
}

func TestLoop_DueOrder(t *testing.T) {
	loop, clock := newTestLoop()
	var order []string
	loop.SetTimeout(20*time.Millisecond, func() { order = append(order, "late") })
	loop.SetTimeout(10*time.Millisecond, func() { order = append(order, "early") })

	clock.advance(30 * time.Millisecond)
	loop.Process()
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestTimer_StartStop(t *testing.T) {
	loop, clock := newTestLoop()
	ticks := 0
	tm := NewTimer(loop, 50*time.Millisecond, func() { ticks++ })

	tm.Start()
	tm.Start()
	assert.True(t, tm.Enabled())

	clock.advance(50 * time.Millisecond)
	loop.Process()
	assert.Equal(t, 1, ticks)

	tm.Stop()
	assert.False(t, tm.Enabled())
	clock.advance(50 * time.Millisecond)
	loop.Process()
	assert.Equal(t, 1, ticks)

	tm.Dispose()
	tm.Start()
	assert.False(t, tm.Enabled())
	assert.False(t, loop.HasPending())
}
