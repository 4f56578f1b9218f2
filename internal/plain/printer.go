// Package plain renders a countdown as one line per tick, as text or JSON.
package plain

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// Format selects the line encoding.
type Format int

const (
	Text Format = iota
	JSON
)

// Line is the JSON shape written for every tick.
type Line struct {
	Label string `json:"label,omitempty"`
	countdown.Remaining
	TotalSeconds int64 `json:"total_seconds"`
}

// Printer is a countdown.Adapter without animation: transitions complete as
// soon as they are requested. Its Callback writes the remaining time.
type Printer struct {
	w      io.Writer
	format Format
	label  string

	mu          sync.Mutex
	widths      countdown.Widths
	transitions int
	zero        chan struct{}
	zeroOnce    sync.Once
}

// Option configures a Printer.
type Option func(*Printer)

// WithFormat selects Text (default) or JSON lines.
func WithFormat(f Format) Option {
	return func(p *Printer) { p.format = f }
}

// WithLabel prefixes every line with label.
func WithLabel(label string) Option {
	return func(p *Printer) { p.label = label }
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, zero: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// InitGroups implements countdown.Adapter.
func (p *Printer) InitGroups(widths countdown.Widths) ([]countdown.Slot, error) {
	p.mu.Lock()
	p.widths = widths
	p.mu.Unlock()
	return countdown.SlotsFor(widths), nil
}

// TransitionDigit implements countdown.Adapter.
func (p *Printer) TransitionDigit(slot countdown.Slot, from, to byte, done func()) {
	p.mu.Lock()
	p.transitions++
	p.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"unit":  slot.Unit.String(),
		"index": slot.Index,
		"from":  string(rune(from)),
		"to":    string(rune(to)),
	}).Trace("digit transition")
	done()
}

// Transitions is the number of digit changes seen so far.
func (p *Printer) Transitions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transitions
}

// Zero is closed once a tick reports no time left.
func (p *Printer) Zero() <-chan struct{} {
	return p.zero
}

// Callback writes one line per tick.
func (p *Printer) Callback() countdown.Callback {
	return func(days, hours, minutes, seconds int64) error {
		r := countdown.Remaining{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
		if err := p.write(r); err != nil {
			return err
		}
		if r.IsZero() {
			p.zeroOnce.Do(func() { close(p.zero) })
		}
		return nil
	}
}

func (p *Printer) write(r countdown.Remaining) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == JSON {
		b, err := json.Marshal(Line{Label: p.label, Remaining: r, TotalSeconds: r.TotalSeconds()})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(b))
		return err
	}

	days := string(countdown.Format(r.Days, p.widths.Days))
	line := fmt.Sprintf("%sd %02d:%02d:%02d", days, r.Hours, r.Minutes, r.Seconds)
	if p.label != "" {
		line = p.label + ": " + line
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}
