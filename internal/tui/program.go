package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// Options configures a TUI countdown run.
type Options struct {
	Deadline           time.Time
	Label              string
	TickInterval       time.Duration
	HideLeadingZeroDay bool
	ExitAtZero         bool

	// Input and Output override the terminal; nil means stdin/stdout.
	// A non-nil Output also disables the alternate screen.
	Input  io.Reader
	Output io.Writer
}

// Run starts the countdown on a Board and blocks in the Bubble Tea program
// until the user quits, ctx is cancelled, or the deadline passes with
// ExitAtZero set.
func Run(ctx context.Context, opts Options) error {
	var boardOpts []BoardOption
	if opts.HideLeadingZeroDay {
		boardOpts = append(boardOpts, WithHideLeadingZeroDay())
	}
	board := NewBoard(boardOpts...)

	// Bridge: countdown callback -> model. Ticks are dropped rather than
	// blocking the scheduler when the UI falls behind.
	ticks := make(chan countdown.Remaining, channelBufferSize)
	callback := func(days, hours, minutes, seconds int64) error {
		select {
		case ticks <- countdown.Remaining{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}:
		default:
		}
		return nil
	}

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	start := time.Now()
	cd, err := countdown.New(board, countdown.Config{
		Timestamp:    countdown.TimestampOf(opts.Deadline),
		Callback:     callback,
		TickInterval: opts.TickInterval,
	})
	if err != nil {
		return err
	}
	defer cd.Stop()

	model := NewModel(board, ticks, opts, start)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, progOpts...)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
