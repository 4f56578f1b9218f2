package countdown

import (
	"sync"
	"time"
)

// Scheduler runs tick once per period until stopped.
//
// The next run is armed only after the current tick returns, so ticks never
// overlap. The period is measured from the end of one tick to the start of the
// next; the time a tick spends working is not subtracted and accumulates as
// drift. Ticks take well under a millisecond, so this is left uncorrected.
type Scheduler struct {
	clock  Clock
	period time.Duration
	tick   func()

	mu      sync.Mutex
	timer   Timer
	started bool
	stopped bool
	runs    uint64
}

// NewScheduler returns an idle scheduler. A non-positive period falls back to
// DefaultTickInterval and a nil clock to SystemClock.
func NewScheduler(clock Clock, period time.Duration, tick func()) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	if period <= 0 {
		period = DefaultTickInterval
	}
	return &Scheduler{clock: clock, period: period, tick: tick}
}

// Start runs the first tick on the calling goroutine and arms the next one.
// Calling Start again, or after Stop, does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.run()
}

// Stop cancels the pending timer. No tick starts after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Running reports whether the scheduler has started and not been stopped.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

// Runs is the number of ticks started so far.
func (s *Scheduler) Runs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) run() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.runs++
	s.mu.Unlock()

	s.tick()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.timer = s.clock.AfterFunc(s.period, s.run)
}
