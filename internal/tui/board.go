package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// ErrBoardTooWide is returned when the day group needs more slots than fit.
var ErrBoardTooWide = errors.New("countdown board too wide")

// Board is the terminal countdown.Adapter. Each slot slides its new digit in
// on a harmonica spring; Advance steps the springs once per frame and fires
// completion hooks for slots that have settled.
type Board struct {
	mu                 sync.Mutex
	spring             harmonica.Spring
	hideLeadingZeroDay bool
	widths             countdown.Widths
	cells              []cell
	index              map[countdown.Slot]int
}

type cell struct {
	slot      countdown.Slot
	from      byte
	to        byte
	pos       float64
	vel       float64
	animating bool
	hidden    bool
	done      func()
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithHideLeadingZeroDay hides the most significant day slot while it shows 0.
func WithHideLeadingZeroDay() BoardOption {
	return func(b *Board) { b.hideLeadingZeroDay = true }
}

// NewBoard returns an empty board; InitGroups lays out the slots.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), springFrequency, springDamping),
		index:  make(map[countdown.Slot]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// InitGroups implements countdown.Adapter. Every slot starts out showing 0.
func (b *Board) InitGroups(widths countdown.Widths) ([]countdown.Slot, error) {
	if widths.Days > maxDaySlots {
		return nil, fmt.Errorf("%w: %d day digits, at most %d", ErrBoardTooWide, widths.Days, maxDaySlots)
	}
	slots := countdown.SlotsFor(widths)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.widths = widths
	b.cells = make([]cell, len(slots))
	b.index = make(map[countdown.Slot]int, len(slots))
	for i, s := range slots {
		b.cells[i] = cell{slot: s, from: '0', to: '0', pos: 1}
		b.index[s] = i
	}
	return slots, nil
}

// TransitionDigit implements countdown.Adapter.
func (b *Board) TransitionDigit(slot countdown.Slot, _, to byte, done func()) {
	b.mu.Lock()
	i, ok := b.index[slot]
	if !ok {
		b.mu.Unlock()
		done()
		return
	}
	c := &b.cells[i]
	if b.hideLeadingZeroDay && slot.Unit == countdown.Days && slot.Index == 0 {
		c.hidden = to == '0'
	}
	// Already showing it: nothing to animate.
	if !c.animating && c.to == to {
		b.mu.Unlock()
		done()
		return
	}
	superseded := c.done
	c.from = c.to
	c.to = to
	c.pos, c.vel = 0, 0
	c.animating = true
	c.done = done
	b.mu.Unlock()

	if superseded != nil {
		superseded()
	}
}

// CancelTransitions implements countdown.Canceler: every slot snaps to its
// target and pending completion hooks are dropped.
func (b *Board) CancelTransitions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cells {
		c := &b.cells[i]
		c.from = c.to
		c.pos, c.vel = 1, 0
		c.animating = false
		c.done = nil
	}
}

// Advance steps every animating slot by one frame and reports whether any
// slot is still moving. Hooks of settled slots run after the lock is released.
func (b *Board) Advance() bool {
	b.mu.Lock()
	var finished []func()
	active := false
	for i := range b.cells {
		c := &b.cells[i]
		if !c.animating {
			continue
		}
		c.pos, c.vel = b.spring.Update(c.pos, c.vel, 1)
		if math.Abs(1-c.pos) < settleEpsilon && math.Abs(c.vel) < settleEpsilon {
			c.pos, c.vel = 1, 0
			c.from = c.to
			c.animating = false
			if c.done != nil {
				finished = append(finished, c.done)
				c.done = nil
			}
			continue
		}
		active = true
	}
	b.mu.Unlock()

	for _, done := range finished {
		done()
	}
	return active
}

// Animating reports whether any slot is mid-transition.
func (b *Board) Animating() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cells {
		if b.cells[i].animating {
			return true
		}
	}
	return false
}

// Shown returns the digits unit is moving to (or showing), hidden slots included.
func (b *Board) Shown(u countdown.Unit) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, c := range b.cells {
		if c.slot.Unit == u {
			sb.WriteByte(c.to)
		}
	}
	return sb.String()
}

// Hidden reports whether slot is currently hidden.
func (b *Board) Hidden(slot countdown.Slot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[slot]
	return ok && b.cells[i].hidden
}

// View renders the digit groups side by side with unit labels underneath.
func (b *Board) View() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	digitStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Foreground(lipgloss.Color(digitColor)).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(labelColor)).Align(lipgloss.Center)
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(digitColor)).Padding(1, 1, 0, 1)

	var columns []string
	idx := 0
	for _, u := range countdown.Units {
		var digits []string
		for range b.widths.Of(u) {
			c := b.cells[idx]
			idx++
			if c.hidden {
				continue
			}
			rows := slideRows(c.from, c.to, c.pos)
			digits = append(digits, digitStyle.Render(strings.Join(rows[:], "\n")))
		}
		body := lipgloss.JoinHorizontal(lipgloss.Top, digits...)
		label := labelStyle.Width(max(lipgloss.Width(body), len(u.String()))).Render(u.String())
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Center, body, label))
		if u != countdown.Seconds {
			columns = append(columns, sepStyle.Render(strings.Join(colonGlyph[:], "\n")))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
