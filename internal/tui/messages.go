package tui

import (
	"errors"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// Message types for Bubble Tea update loop.

// tickMsg carries the remaining time reported by a countdown tick.
type tickMsg countdown.Remaining

// frameMsg advances digit animations by one frame.
type frameMsg struct{}

// ErrQuit is a sentinel quit reason.
var ErrQuit = errors.New("quit")
