package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countdown/internal/countdown"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	storeFile          = "~/.config/countdown/events.json"
	verbose            bool
	jsonOutput         bool
	tuiMode            bool
	until              string
	in                 string
	configFile         string
	label              string
	interval           time.Duration
	hideLeadingZeroDay bool
	exitAtZero         bool
	eventLabel         string

	rootCmd = &cobra.Command{
		Use:   "countdown",
		Short: "A flip-digit countdown timer for the terminal.",
		Long:  `Counts down to a deadline in days, hours, minutes and seconds, either as an animated flip-digit board (--tui) or as one line per second. Deadlines can be saved as named events and reused later.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&storeFile, "store-file", storeFile, "Path of the saved events file")

	runCmd.Flags().StringVar(&until, "until", "", "Deadline as RFC 3339, date, date and time, +offset or epoch milliseconds")
	runCmd.Flags().StringVar(&in, "in", "", "Count down for a duration from now (e.g. 90s, 1h30m)")
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML profile with deadline and display settings")
	runCmd.Flags().StringVar(&label, "label", "", "Label shown next to the countdown")
	runCmd.Flags().DurationVar(&interval, "interval", countdown.DefaultTickInterval, "Time between ticks")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON object per tick instead of text")
	runCmd.Flags().BoolVar(&tuiMode, "tui", false, "Show the animated flip-digit board")
	runCmd.Flags().BoolVar(&hideLeadingZeroDay, "hide-leading-zero-day", false, "Hide the leading day digit while it is 0 (--tui)")
	runCmd.Flags().BoolVar(&exitAtZero, "exit-at-zero", true, "Exit when the countdown reaches zero (default false with --tui)")

	eventAddCmd.Flags().StringVar(&eventLabel, "label", "", "Label shown when the event is run")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(eventCmd)

	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventRemoveCmd)
	eventCmd.AddCommand(eventResetCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}
