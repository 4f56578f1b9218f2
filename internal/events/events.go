package events

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/countdown"
	"github.com/ensigniasec/countdown/internal/storage"
)

// Registry errors.
var (
	ErrNotFound = errors.New("event not found")
	ErrExists   = errors.New("event already exists")
)

// Registry handles the logic for the event commands.
type Registry struct {
	Storage *storage.Storage
	now     func() time.Time
}

// NewRegistry creates a new Registry instance.
func NewRegistry(storagePath string) (*Registry, error) {
	s, err := storage.NewStorage(storagePath)
	if err != nil {
		return nil, err
	}

	return &Registry{Storage: s, now: time.Now}, nil
}

// View prints saved events, soonest first, with the time left until each.
func (r *Registry) View(w io.Writer) {
	if len(r.Storage.Data.Events) == 0 {
		fmt.Fprintln(w, "No saved events.")
		return
	}

	evs := append([]storage.Event(nil), r.Storage.Data.Events...)
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Deadline.Before(evs[j].Deadline) })

	now := r.now()
	for _, ev := range evs {
		left := countdown.DecomposeTime(ev.Deadline, now)
		status := left.String()
		if left.IsZero() {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s", ev.Name, ev.Deadline.Format(time.RFC3339), status)
		if ev.Label != "" {
			fmt.Fprintf(w, "\t%s", ev.Label)
		}
		fmt.Fprintln(w)
	}
}

// Lookup returns the event called name.
func (r *Registry) Lookup(name string) (storage.Event, bool) {
	for _, ev := range r.Storage.Data.Events {
		if ev.Name == name {
			return ev, true
		}
	}
	return storage.Event{}, false
}

// Add saves a new event.
func (r *Registry) Add(name string, deadline time.Time, label string) (storage.Event, error) {
	logrus.Debugf("Adding event: name=%s, deadline=%s", name, deadline.Format(time.RFC3339))
	if _, ok := r.Lookup(name); ok {
		return storage.Event{}, fmt.Errorf("%w: %s", ErrExists, name)
	}
	ev, err := storage.NewEvent(name, deadline, label)
	if err != nil {
		return storage.Event{}, err
	}
	r.Storage.Data.Events = append(r.Storage.Data.Events, ev)
	return ev, r.Storage.Save()
}

// Remove deletes the event called name.
func (r *Registry) Remove(name string) error {
	logrus.Debugf("Removing event: name=%s", name)
	for i, ev := range r.Storage.Data.Events {
		if ev.Name == name {
			r.Storage.Data.Events = append(r.Storage.Data.Events[:i], r.Storage.Data.Events[i+1:]...)
			return r.Storage.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Reset removes every saved event.
func (r *Registry) Reset() error {
	logrus.Debug("Resetting events")
	r.Storage.Data.Events = []storage.Event{}
	return r.Storage.Save()
}
