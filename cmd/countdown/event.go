package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countdown/internal/deadline"
	"github.com/ensigniasec/countdown/internal/events"
)

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure
var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage saved events",
	Long:  "View, add, remove, or reset saved events. A saved event can be run by name: countdown run NAME.",
	Run: func(cmd *cobra.Command, args []string) {
		listEvents()
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var eventListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved events with the time left until each",
	Run: func(cmd *cobra.Command, args []string) {
		listEvents()
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var eventAddCmd = &cobra.Command{
	Use:   "add [NAME] [DEADLINE]",
	Short: "Save a named deadline",
	Long:  "Save a named deadline. DEADLINE accepts the same forms as run --until.",
	Args:  cobra.ExactArgs(2), //nolint:mnd // 'add' requires exactly 2 arguments by CLI contract
	Run: func(cmd *cobra.Command, args []string) {
		dl, err := deadline.Parse(args[1], time.Now())
		if err != nil {
			logrus.Fatalf("Invalid deadline %q: %v", args[1], err)
		}
		r, err := events.NewRegistry(storeFile)
		if err != nil {
			logrus.Fatal(err)
		}
		ev, err := r.Add(args[0], dl, eventLabel)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Saved %s for %s\n", ev.Name, ev.Deadline.Format(time.RFC3339))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var eventRemoveCmd = &cobra.Command{
	Use:     "remove [NAME]",
	Aliases: []string{"rm"},
	Short:   "Remove a saved event",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := events.NewRegistry(storeFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := r.Remove(args[0]); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var eventResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every saved event",
	Run: func(cmd *cobra.Command, args []string) {
		r, err := events.NewRegistry(storeFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := r.Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Saved events cleared")
	},
}

func listEvents() {
	r, err := events.NewRegistry(storeFile)
	if err != nil {
		logrus.Fatal(err)
	}
	r.View(os.Stdout)
}
