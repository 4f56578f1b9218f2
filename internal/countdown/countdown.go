package countdown

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Countdown drives an Adapter with the time left until a fixed deadline.
type Countdown struct {
	cfg      Config
	adapter  Adapter
	log      logrus.FieldLogger
	deadline float64
	widths   Widths
	slots    []Slot
	sched    *Scheduler

	mu             sync.Mutex
	positions      []Position
	stopped        bool
	ticks          uint64
	last           Remaining
	overflowWarned bool
}

// pendingTransition is a Transition decision waiting to be forwarded.
type pendingTransition struct {
	index    int
	decision Decision
}

// New builds the digit groups on adapter and starts ticking.
//
// The day group is sized once from the time left now and keeps that width for
// the life of the countdown. Construction fails with a ConfigError when the
// adapter is missing or rejects the groups; the countdown is then never started.
func New(adapter Adapter, cfg Config) (*Countdown, error) {
	if adapter == nil {
		return nil, &ConfigError{Field: "adapter", Reason: "no render target"}
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	log := cfg.Logger
	if !finite(cfg.Timestamp) {
		log.WithField("timestamp", cfg.Timestamp).Warn("deadline is not a finite timestamp; treating it as expired")
	}

	initial := Decompose(cfg.Timestamp, TimestampOf(cfg.Clock.Now()))
	widths := Widths{
		Days:    DayWidth(initial.Days),
		Hours:   minGroupWidth,
		Minutes: minGroupWidth,
		Seconds: minGroupWidth,
	}

	slots, err := adapter.InitGroups(widths)
	if err != nil {
		return nil, &ConfigError{Field: "adapter", Reason: "could not build digit groups", Err: err}
	}
	if err := checkSlots(slots, widths); err != nil {
		return nil, err
	}

	c := &Countdown{
		cfg:       cfg,
		adapter:   adapter,
		log:       log,
		deadline:  cfg.Timestamp,
		widths:    widths,
		slots:     slots,
		positions: make([]Position, len(slots)),
	}
	c.sched = NewScheduler(cfg.Clock, cfg.TickInterval, c.tick)

	log.WithFields(logrus.Fields{
		"remaining": initial.String(),
		"day_width": widths.Days,
		"interval":  cfg.TickInterval,
	}).Debug("countdown started")

	c.sched.Start()
	return c, nil
}

// checkSlots verifies the adapter returned one slot per digit in reading order.
func checkSlots(slots []Slot, widths Widths) error {
	want := SlotsFor(widths)
	if len(slots) != len(want) {
		return &ConfigError{
			Field:  "adapter",
			Reason: fmt.Sprintf("returned %d slots, want %d", len(slots), len(want)),
		}
	}
	for i := range want {
		if slots[i] != want[i] {
			return &ConfigError{
				Field:  "adapter",
				Reason: fmt.Sprintf("slot %d is %s[%d], want %s[%d]", i, slots[i].Unit, slots[i].Index, want[i].Unit, want[i].Index),
			}
		}
	}
	return nil
}

// Stop cancels the next tick and ignores completion hooks that arrive later.
// It is safe to call more than once and from inside the callback.
func (c *Countdown) Stop() {
	c.sched.Stop()

	c.mu.Lock()
	already := c.stopped
	c.stopped = true
	c.mu.Unlock()
	if already {
		return
	}

	if cn, ok := c.adapter.(Canceler); ok {
		cn.CancelTransitions()
	}
	c.log.Debug("countdown stopped")
}

// Running reports whether ticks are still being scheduled.
func (c *Countdown) Running() bool {
	return c.sched.Running()
}

// Widths returns the digit group widths fixed at construction.
func (c *Countdown) Widths() Widths {
	return c.widths
}

// Remaining returns the value computed by the most recent tick.
func (c *Countdown) Remaining() Remaining {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// tick decomposes, formats and diffs under the lock, then renders and calls
// back outside it so adapters may complete transitions synchronously.
func (c *Countdown) tick() {
	rem := Decompose(c.deadline, TimestampOf(c.cfg.Clock.Now()))

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.ticks++
	tick := c.ticks
	c.last = rem
	pending := c.diffLocked(rem)
	c.mu.Unlock()

	for _, p := range pending {
		c.adapter.TransitionDigit(c.slots[p.index], p.decision.From, p.decision.To, c.completion(p.index))
	}

	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return
	}
	c.invokeCallback(tick, rem)
}

// diffLocked offers every digit of rem to its position. Caller must hold c.mu.
func (c *Countdown) diffLocked(rem Remaining) []pendingTransition {
	var pending []pendingTransition
	idx := 0
	for _, u := range Units {
		width := c.widths.Of(u)
		value := rem.Of(u)
		if !fits(value, width) && !c.overflowWarned {
			c.overflowWarned = true
			c.log.WithFields(logrus.Fields{"unit": u.String(), "value": value, "width": width}).
				Warn("value exceeds digit group width; showing low-order digits")
		}
		for _, d := range Format(value, width) {
			if dec := c.positions[idx].Update(d); dec.Kind == Transition {
				pending = append(pending, pendingTransition{index: idx, decision: dec})
			}
			idx++
		}
	}
	return pending
}

// completion returns the hook handed to the adapter for position idx.
// Extra calls and calls after Stop are ignored.
func (c *Countdown) completion(idx int) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.stopped {
				return
			}
			c.positions[idx].TransitionComplete()
		})
	}
}

func (c *Countdown) invokeCallback(tick uint64, rem Remaining) {
	err := c.safeCallback(rem)
	if err == nil {
		return
	}
	c.report(&CallbackError{Tick: tick, Err: err})
}

func (c *Countdown) safeCallback(rem Remaining) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, v)
		}
	}()
	return c.cfg.Callback(rem.Days, rem.Hours, rem.Minutes, rem.Seconds)
}

// report hands err to OnError. A panicking hook is logged rather than allowed
// to unwind into the scheduler.
func (c *Countdown) report(err error) {
	defer func() {
		if v := recover(); v != nil {
			c.log.WithError(err).WithField("panic", v).Error("countdown error hook panicked")
		}
	}()
	c.cfg.OnError(err)
}
