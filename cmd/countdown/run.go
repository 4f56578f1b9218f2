package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countdown/internal/countdown"
	"github.com/ensigniasec/countdown/internal/deadline"
	"github.com/ensigniasec/countdown/internal/events"
	"github.com/ensigniasec/countdown/internal/plain"
	"github.com/ensigniasec/countdown/internal/storage"
	"github.com/ensigniasec/countdown/internal/tui"
	"github.com/ensigniasec/countdown/internal/validate"
)

var errNoDeadline = errors.New("no deadline: pass --until, --in, a saved event name, or set deadline in a profile")

// runFlags is the command line input to resolveRun.
type runFlags struct {
	until              string
	in                 string
	config             string
	label              string
	interval           time.Duration
	tui                bool
	hideLeadingZeroDay bool
	exitAtZero         bool
	storeFile          string
	systemProfile      string
	changed            func(name string) bool
}

// runSettings is a fully resolved countdown run.
type runSettings struct {
	Deadline           time.Time     `validate:"required"`
	Label              string        `validate:"max=128"`
	TickInterval       time.Duration `validate:"gte=0"`
	HideLeadingZeroDay bool
	ExitAtZero         bool
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var runCmd = &cobra.Command{
	Use:   "run [NAME|DEADLINE]",
	Short: "Count down to a deadline or a saved event",
	Long:  "Count down to a deadline given as a flag, a positional DEADLINE, the name of a saved event, or the deadline in a YAML profile. Flags win over the saved event, which wins over the profile.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Check for conflicting flags
		if jsonOutput && tuiMode {
			logrus.Fatal("Cannot use --json and --tui flags together")
		}

		// Set log level based on flags
		if (jsonOutput || tuiMode) && !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		} else if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		f := runFlags{
			until:              until,
			in:                 in,
			config:             configFile,
			label:              label,
			interval:           interval,
			tui:                tuiMode,
			hideLeadingZeroDay: hideLeadingZeroDay,
			exitAtZero:         exitAtZero,
			storeFile:          storeFile,
			systemProfile:      storage.SystemProfilePath,
			changed:            cmd.Flags().Changed,
		}
		s, err := resolveRun(f, args, time.Now())
		if errors.Is(err, errNoDeadline) && tuiMode {
			s, err = pickSaved(cmd.Context(), s)
		}
		if errors.Is(err, tui.ErrQuit) {
			return
		}
		if err != nil {
			logrus.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logrus.WithFields(logrus.Fields{
			"deadline": s.Deadline.Format(time.RFC3339),
			"interval": s.TickInterval,
		}).Debug("starting countdown")

		if tuiMode {
			err = tui.Run(ctx, tui.Options{
				Deadline:           s.Deadline,
				Label:              s.Label,
				TickInterval:       s.TickInterval,
				HideLeadingZeroDay: s.HideLeadingZeroDay,
				ExitAtZero:         s.ExitAtZero,
			})
			if err != nil {
				logrus.Fatalf("TUI mode failed: %v", err)
			}
			return
		}

		format := plain.Text
		if jsonOutput {
			format = plain.JSON
		}
		if err := runPlain(ctx, os.Stdout, s, format); err != nil {
			logrus.Fatal(err)
		}
	},
}

// resolveRun merges the system profile, the --config profile, a saved event
// and the flags into one run. The returned settings are usable for display
// even when the error is errNoDeadline.
func resolveRun(f runFlags, args []string, now time.Time) (runSettings, error) {
	p := storage.ReadSystemProfile(f.systemProfile)
	if f.config != "" {
		user, err := storage.LoadProfile(f.config)
		if err != nil {
			return runSettings{}, err
		}
		p = p.Merge(user)
	}

	s := runSettings{
		Label:              p.Label,
		TickInterval:       p.TickInterval,
		HideLeadingZeroDay: p.HideLeadingZeroDay,
		ExitAtZero:         !f.tui,
	}
	if p.ExitAtZero != nil {
		s.ExitAtZero = *p.ExitAtZero
	}

	switch {
	case f.until != "":
		dl, err := deadline.Parse(f.until, now)
		if err != nil {
			return runSettings{}, fmt.Errorf("--until: %w", err)
		}
		s.Deadline = dl
	case f.in != "":
		d, err := time.ParseDuration(f.in)
		if err != nil {
			return runSettings{}, fmt.Errorf("--in: %w", err)
		}
		if d < 0 {
			return runSettings{}, fmt.Errorf("--in: %w: negative duration %s", deadline.ErrUnrecognized, f.in)
		}
		s.Deadline = now.Add(d)
	case len(args) > 0:
		r, err := events.NewRegistry(f.storeFile)
		if err != nil {
			return runSettings{}, err
		}
		if ev, ok := r.Lookup(args[0]); ok {
			s.Deadline = ev.Deadline
			s.Label = eventTitle(ev)
			break
		}
		dl, err := deadline.Parse(args[0], now)
		if err != nil {
			return runSettings{}, fmt.Errorf("%q is neither a saved event nor a deadline: %w", args[0], err)
		}
		s.Deadline = dl
	case p.Deadline != "":
		dl, err := deadline.Parse(p.Deadline, now)
		if err != nil {
			return runSettings{}, fmt.Errorf("profile deadline: %w", err)
		}
		s.Deadline = dl
	}

	changed := f.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	if changed("label") {
		s.Label = f.label
	}
	if changed("interval") || s.TickInterval == 0 {
		s.TickInterval = f.interval
	}
	if changed("hide-leading-zero-day") {
		s.HideLeadingZeroDay = f.hideLeadingZeroDay
	}
	if changed("exit-at-zero") {
		s.ExitAtZero = f.exitAtZero
	}

	if s.Deadline.IsZero() {
		return s, errNoDeadline
	}
	if err := validate.Struct(s); err != nil {
		return runSettings{}, fmt.Errorf("invalid run settings: %w", err)
	}
	return s, nil
}

// pickSaved lets the user choose a saved event when no deadline was given.
func pickSaved(ctx context.Context, s runSettings) (runSettings, error) {
	r, err := events.NewRegistry(storeFile)
	if err != nil {
		return runSettings{}, err
	}
	ev, err := tui.Pick(ctx, r.Storage.Data.Events, nil, nil)
	if errors.Is(err, tui.ErrNoEvents) {
		return runSettings{}, errNoDeadline
	}
	if err != nil {
		return runSettings{}, err
	}
	s.Deadline = ev.Deadline
	if s.Label == "" {
		s.Label = eventTitle(ev)
	}
	return s, nil
}

func eventTitle(ev storage.Event) string {
	if ev.Label != "" {
		return ev.Label
	}
	return ev.Name
}

// runPlain prints one line per tick to w until ctx is done, or until zero
// when s.ExitAtZero is set.
func runPlain(ctx context.Context, w io.Writer, s runSettings, format plain.Format) error {
	opts := []plain.Option{plain.WithFormat(format)}
	if s.Label != "" {
		opts = append(opts, plain.WithLabel(s.Label))
	}
	printer := plain.NewPrinter(w, opts...)

	cd, err := countdown.New(printer, countdown.Config{
		Timestamp:    countdown.TimestampOf(s.Deadline),
		Callback:     printer.Callback(),
		TickInterval: s.TickInterval,
		OnError: func(err error) {
			logrus.WithError(err).Error("Unable to write countdown line")
		},
	})
	if err != nil {
		return err
	}
	defer cd.Stop()

	if !s.ExitAtZero {
		<-ctx.Done()
		return nil
	}
	select {
	case <-printer.Zero():
	case <-ctx.Done():
	}
	return nil
}
