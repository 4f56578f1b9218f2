package storage

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/countdown/internal/validate"
)

// SystemProfilePath is the managed, system-wide defaults file.
const SystemProfilePath = "/etc/countdown/config.yaml"

// maxProfileSize bounds how much of a profile file is read.
const maxProfileSize = 64 * 1024

// Profile holds run settings read from YAML.
//
//	deadline: 2026-12-31T23:59:59Z
//	label: New Year
//	tick_interval: 500ms
//	hide_leading_zero_day: true
//	exit_at_zero: false
type Profile struct {
	Deadline           string        `yaml:"deadline" validate:"omitempty,deadline"`
	Label              string        `yaml:"label" validate:"max=128"`
	TickInterval       time.Duration `yaml:"tick_interval" validate:"gte=0"`
	HideLeadingZeroDay bool          `yaml:"hide_leading_zero_day"`
	ExitAtZero         *bool         `yaml:"exit_at_zero"`
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (Profile, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return Profile{}, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Profile{}, err
	}
	if len(data) > maxProfileSize {
		return Profile{}, fmt.Errorf("profile %s exceeds %d bytes", expanded, maxProfileSize)
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", expanded, err)
	}
	if err := validate.Struct(p); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", expanded, err)
	}
	return p, nil
}

// ReadSystemProfile returns the managed defaults at path, or an empty Profile
// when the file is missing or invalid.
func ReadSystemProfile(path string) Profile {
	p, err := LoadProfile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("Ignoring system profile: %v", err)
		}
		return Profile{}
	}
	return p
}

// Merge overlays the non-zero fields of other onto p.
func (p Profile) Merge(other Profile) Profile {
	if other.Deadline != "" {
		p.Deadline = other.Deadline
	}
	if other.Label != "" {
		p.Label = other.Label
	}
	if other.TickInterval != 0 {
		p.TickInterval = other.TickInterval
	}
	if other.HideLeadingZeroDay {
		p.HideLeadingZeroDay = true
	}
	if other.ExitAtZero != nil {
		v := *other.ExitAtZero
		p.ExitAtZero = &v
	}
	return p
}
