package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/validate"
)

// Event is a named deadline saved for later runs.
type Event struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Name      string    `json:"name" validate:"required,max=64"`
	Deadline  time.Time `json:"deadline" validate:"required"`
	Label     string    `json:"label,omitempty" validate:"max=128"`
	CreatedAt time.Time `json:"created_at"`
}

// Data represents the structure of the storage file.
type Data struct {
	Events []Event `json:"events" validate:"dive"`
}

// Storage handles the loading and saving of the storage file.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Data
}

// NewStorage creates a new Storage instance, loading path if it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{Events: []Event{}},
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a new one otherwise.
// When creating a new storage, it writes the initial structure to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	s, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	if err := s.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading storage file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.Events == nil {
		s.Data.Events = []Event{}
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		if s.heal() {
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// heal repairs or drops invalid events and reports whether anything changed.
func (s *Storage) heal() bool {
	changed := false
	kept := s.Data.Events[:0]
	seen := make(map[string]struct{}, len(s.Data.Events))
	for _, ev := range s.Data.Events {
		if validate.Var(ev.ID, "uuid4") != nil {
			ev.ID = uuid.NewString()
			changed = true
		}
		if _, dup := seen[ev.Name]; dup || validate.Struct(ev) != nil {
			logrus.Warnf("Invalid event %q found in storage; dropping.", ev.Name)
			changed = true
			continue
		}
		seen[ev.Name] = struct{}{}
		kept = append(kept, ev)
	}
	s.Data.Events = kept
	return changed
}

// Save writes the storage data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving storage file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// NewEvent builds a validated Event with a fresh ID.
func NewEvent(name string, deadline time.Time, label string) (Event, error) {
	ev := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Deadline:  deadline,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := validate.Struct(ev); err != nil {
		return Event{}, errors.Join(ErrInvalidEvent, err)
	}
	return ev, nil
}

// ErrInvalidEvent is returned when an event fails validation.
var ErrInvalidEvent = errors.New("invalid event")

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
