package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// Model is the root Bubble Tea model for a running countdown.
type Model struct {
	board     *Board
	label     string
	deadline  time.Time
	total     int64
	remaining countdown.Remaining
	progress  progress.Model
	spinner   spinner.Model
	stopwatch stopwatch.Model
	width     int
	height    int
	quitting  bool
	expired   bool

	// inbound remaining-time updates from the countdown callback
	ticks <-chan countdown.Remaining

	// animation state
	framing bool

	// ui state
	helpVisible bool
	exitAtZero  bool

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model. start is when the countdown began; the progress
// bar shows the fraction of start..deadline that has elapsed.
func NewModel(board *Board, ticks <-chan countdown.Remaining, opts Options, start time.Time) Model { // nolint:ireturn
	total := countdown.DecomposeTime(opts.Deadline, start).TotalSeconds()
	return Model{
		board:      board,
		label:      opts.Label,
		deadline:   opts.Deadline,
		total:      total,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		stopwatch:  stopwatch.NewWithInterval(time.Second),
		ticks:      ticks,
		framing:    true,
		exitAtZero: opts.ExitAtZero,
		keys:       newKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForTicks(),
		m.nextFrame(),
		m.spinner.Tick,
		m.stopwatch.Init(),
	)
}

// listenForTicks returns a Tea command that waits for the next countdown tick.
func (m Model) listenForTicks() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.ticks
		if !ok {
			return nil
		}
		return tickMsg(r)
	}
}

// nextFrame schedules the next animation frame.
func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// elapsed is the fraction of the countdown that has passed, in [0,1].
func (m Model) elapsed() float64 {
	if m.total <= 0 {
		return 1
	}
	left := float64(m.remaining.TotalSeconds()) / float64(m.total)
	return min(1, max(0, 1-left))
}
