package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/countdown/internal/events"
	"github.com/ensigniasec/countdown/internal/plain"
)

func baseFlags(t *testing.T) runFlags {
	t.Helper()
	dir := t.TempDir()
	return runFlags{
		interval:      time.Second,
		exitAtZero:    true,
		storeFile:     filepath.Join(dir, "events.json"),
		systemProfile: filepath.Join(dir, "missing.yaml"),
	}
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveRun_FlagsPickTheDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	f := baseFlags(t)
	f.in = "90s"
	s, err := resolveRun(f, nil, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(90*time.Second), s.Deadline)
	assert.Equal(t, time.Second, s.TickInterval)
	assert.True(t, s.ExitAtZero, "plain runs exit at zero by default")

	f = baseFlags(t)
	f.until = "2026-03-02T00:00:00Z"
	f.in = "90s"
	s, err = resolveRun(f, nil, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), s.Deadline, "--until wins over --in")
}

func TestResolveRun_TUIStaysOpenByDefault(t *testing.T) {
	f := baseFlags(t)
	f.tui = true
	f.in = "1m"
	s, err := resolveRun(f, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, s.ExitAtZero)

	f.changed = changedSet("exit-at-zero")
	s, err = resolveRun(f, nil, time.Now())
	require.NoError(t, err)
	assert.True(t, s.ExitAtZero)
}

func TestResolveRun_SavedEvent(t *testing.T) {
	f := baseFlags(t)
	r, err := events.NewRegistry(f.storeFile)
	require.NoError(t, err)
	dl := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = r.Add("launch", dl, "Launch day")
	require.NoError(t, err)

	s, err := resolveRun(f, []string{"launch"}, time.Now())
	require.NoError(t, err)
	assert.True(t, dl.Equal(s.Deadline))
	assert.Equal(t, "Launch day", s.Label)

	f.label = "override"
	f.changed = changedSet("label")
	s, err = resolveRun(f, []string{"launch"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "override", s.Label)
}

func TestResolveRun_ProfileLayers(t *testing.T) {
	f := baseFlags(t)
	f.systemProfile = writeProfile(t, "label: managed\ntick_interval: 2s\nexit_at_zero: false\n")
	f.config = writeProfile(t, "deadline: 2030-01-01\nhide_leading_zero_day: true\n")

	s, err := resolveRun(f, nil, time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), s.Deadline)
	assert.Equal(t, "managed", s.Label)
	assert.Equal(t, 2*time.Second, s.TickInterval)
	assert.True(t, s.HideLeadingZeroDay)
	assert.False(t, s.ExitAtZero)

	f.interval = 250 * time.Millisecond
	f.changed = changedSet("interval")
	s, err = resolveRun(f, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, s.TickInterval)
}

func TestResolveRun_Errors(t *testing.T) {
	f := baseFlags(t)
	_, err := resolveRun(f, nil, time.Now())
	require.ErrorIs(t, err, errNoDeadline)

	f = baseFlags(t)
	f.config = writeProfile(t, "deadline: soon\n")
	_, err = resolveRun(f, nil, time.Now())
	require.Error(t, err)

	f = baseFlags(t)
	f.config = writeProfile(t, "colour: red\n")
	_, err = resolveRun(f, nil, time.Now())
	require.Error(t, err, "unknown profile keys are rejected")

	f = baseFlags(t)
	f.in = "-1s"
	_, err = resolveRun(f, nil, time.Now())
	require.ErrorContains(t, err, "negative duration")
}

func TestRunPlain_ExitsAtZero(t *testing.T) {
	var out bytes.Buffer
	s := runSettings{Deadline: time.Now().Add(-time.Second), ExitAtZero: true, Label: "gone"}

	require.NoError(t, runPlain(context.Background(), &out, s, plain.Text))
	assert.Equal(t, "gone: 00d 00:00:00\n", out.String())
}

func TestRunPlain_StopsWithContext(t *testing.T) {
	var out bytes.Buffer
	s := runSettings{Deadline: time.Now().Add(time.Hour), TickInterval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runPlain(ctx, &out, s, plain.JSON))
	assert.Contains(t, out.String(), `"minutes":59`)
}
