package countdown

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FirstTickIsSynchronous(t *testing.T) {
	t.Parallel()

	fc := NewFakeClock(time.Unix(0, 0))
	var n atomic.Int32
	s := NewScheduler(fc, time.Second, func() { n.Add(1) })

	s.Start()
	assert.Equal(t, int32(1), n.Load())
	assert.True(t, s.Running())
	assert.Equal(t, 1, fc.Pending())

	s.Start() // second Start is ignored
	assert.Equal(t, int32(1), n.Load())
}

func TestScheduler_TicksEveryPeriod(t *testing.T) {
	t.Parallel()

	fc := NewFakeClock(time.Unix(0, 0))
	var n atomic.Int32
	s := NewScheduler(fc, 250*time.Millisecond, func() { n.Add(1) })
	s.Start()

	fc.Advance(249 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
	fc.Advance(time.Millisecond)
	assert.Equal(t, int32(2), n.Load())
	fc.Advance(time.Second)
	assert.Equal(t, int32(6), n.Load())
	assert.Equal(t, uint64(6), s.Runs())
}

func TestScheduler_PeriodCountsFromEndOfTick(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	fc := NewFakeClock(start)
	// Each tick "works" for 100ms; the next run is armed after that work.
	s := NewScheduler(fc, time.Second, func() { fc.Step(100 * time.Millisecond) })
	s.Start()

	due, ok := fc.NextDue()
	require.True(t, ok)
	assert.Equal(t, start.Add(1100*time.Millisecond), due)

	fc.Advance(1100 * time.Millisecond)
	due, ok = fc.NextDue()
	require.True(t, ok)
	assert.Equal(t, start.Add(2200*time.Millisecond), due, "drift accumulates across ticks")
}

func TestScheduler_StopCancelsPendingTimer(t *testing.T) {
	t.Parallel()

	fc := NewFakeClock(time.Unix(0, 0))
	var n atomic.Int32
	s := NewScheduler(fc, time.Second, func() { n.Add(1) })
	s.Start()
	fc.Advance(time.Second)
	require.Equal(t, int32(2), n.Load())

	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, fc.Pending())

	fc.Advance(10 * time.Second)
	assert.Equal(t, int32(2), n.Load())

	s.Stop()
	s.Start()
	assert.Equal(t, int32(2), n.Load(), "stopped scheduler cannot be restarted")
}

func TestScheduler_StopFromInsideTick(t *testing.T) {
	t.Parallel()

	fc := NewFakeClock(time.Unix(0, 0))
	var n atomic.Int32
	var s *Scheduler
	s = NewScheduler(fc, time.Second, func() {
		if n.Add(1) == 2 {
			s.Stop()
		}
	})
	s.Start()
	fc.Advance(5 * time.Second)

	assert.Equal(t, int32(2), n.Load())
	assert.Equal(t, 0, fc.Pending())
}

func TestScheduler_Defaults(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, 0, func() {})
	assert.Equal(t, DefaultTickInterval, s.period)
	assert.Equal(t, SystemClock, s.clock)
}

func TestScheduler_SystemClock(t *testing.T) {
	t.Parallel()

	ticks := make(chan struct{}, 8)
	s := NewScheduler(SystemClock, 5*time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	s.Start()
	defer s.Stop()

	for range 3 {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not tick on the system clock")
		}
	}
}
