package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "countdown-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}

	bin := filepath.Join(dir, "countdown-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		_ = os.RemoveAll(dir)
		os.Exit(1)
	}
	testBinaryPath = bin

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func setCmdHome(cmd *exec.Cmd, home string) {
	cmd.Env = append(os.Environ(), "HOME="+home)
}

func defaultStorePath(home string) string {
	return filepath.Join(home, ".config", "countdown", "events.json")
}

func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd runs the binary with an isolated HOME so tests never touch real saved events.
func newCmd(t *testing.T, home string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(buildTestBinary(t), args...)
	setCmdHome(cmd, home)
	return cmd
}

func TestCLI_HelpOutput(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "root help",
			args:     []string{"--help"},
			contains: []string{"countdown", "flip-digit", "run", "event", "--store-file", "--verbose"},
		},
		{
			name: "run help",
			args: []string{"run", "--help"},
			contains: []string{
				"NAME|DEADLINE",
				"--until",
				"--in",
				"--config",
				"--json",
				"--tui",
				"--hide-leading-zero-day",
				"--exit-at-zero",
			},
		},
		{
			name:     "event help",
			args:     []string{"event", "--help"},
			contains: []string{"saved events", "add", "remove", "reset", "list"},
		},
		{
			name:     "version",
			args:     []string{"--version"},
			contains: []string{"countdown dev", "commit: none", "date: unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, home, tt.args...).CombinedOutput()
			require.NoError(t, err)

			for _, expected := range tt.contains {
				assert.Contains(t, string(output), expected)
			}
		})
	}
}

func TestCLI_RunPlain(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name   string
		args   []string
		expect string
	}{
		{
			name:   "expired deadline prints zero and exits",
			args:   []string{"run", "--in", "0s"},
			expect: "00d 00:00:00\n",
		},
		{
			name:   "past deadline as positional argument",
			args:   []string{"run", "2001-01-01"},
			expect: "00d 00:00:00\n",
		},
		{
			name:   "label prefixes the line",
			args:   []string{"run", "--until", "2001-01-01T00:00:00Z", "--label", "y2k"},
			expect: "y2k: 00d 00:00:00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCmd(t, home, tt.args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			require.NoError(t, err, "stderr: %s", stderr.String())
			assert.Equal(t, tt.expect, stdout.String())
		})
	}
}

func TestCLI_RunCountsDown(t *testing.T) {
	home := t.TempDir()

	cmd := newCmd(t, home, "run", "--in", "2s", "--interval", "1s")
	output, err := cmd.Output()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	require.GreaterOrEqual(t, len(lines), 2, "output: %s", output)
	assert.Equal(t, "00d 00:00:01", lines[0])
	assert.Equal(t, "00d 00:00:00", lines[len(lines)-1])
}

func TestCLI_RunJSON(t *testing.T) {
	home := t.TempDir()

	cmd := newCmd(t, home, "run", "--in", "0s", "--json", "--label", "now")
	output, err := cmd.Output()
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(output, &line), "Output should be valid JSON: %s", string(output))
	assert.Equal(t, "now", line["label"])
	assert.InDelta(t, 0, line["days"], 0)
	assert.InDelta(t, 0, line["total_seconds"], 0)
}

func TestCLI_RunFromProfile(t *testing.T) {
	home := t.TempDir()
	profile := filepath.Join(t.TempDir(), "countdown.yaml")
	content := "deadline: 2001-01-01T00:00:00Z\nlabel: from profile\n"
	require.NoError(t, os.WriteFile(profile, []byte(content), 0o600))

	output, err := newCmd(t, home, "run", "--config", profile).Output()
	require.NoError(t, err)
	assert.Equal(t, "from profile: 00d 00:00:00\n", string(output))
}

func TestCLI_EventCommands(t *testing.T) {
	home := t.TempDir()
	storeFile := defaultStorePath(home)

	tests := []struct {
		name         string
		commands     [][]string
		expectOutput []string
	}{
		{
			name:         "view empty events",
			commands:     [][]string{{"event"}},
			expectOutput: []string{"No saved events."},
		},
		{
			name: "add then list",
			commands: [][]string{
				{"event", "add", "launch", "2001-01-01T00:00:00Z", "--label", "Launch day"},
				{"event", "list"},
			},
			expectOutput: []string{"Saved launch", "launch\t2001-01-01T00:00:00Z\tdone\tLaunch day"},
		},
		{
			name: "run a saved event by name",
			commands: [][]string{
				{"event", "add", "launch", "2001-01-01T00:00:00Z"},
				{"run", "launch"},
			},
			expectOutput: []string{"launch: 00d 00:00:00"},
		},
		{
			name: "remove",
			commands: [][]string{
				{"event", "add", "launch", "2001-01-01T00:00:00Z"},
				{"event", "remove", "launch"},
				{"event"},
			},
			expectOutput: []string{"Removed launch", "No saved events."},
		},
		{
			name: "reset",
			commands: [][]string{
				{"event", "add", "a", "+1h"},
				{"event", "add", "b", "+2h"},
				{"event", "reset"},
				{"event", "list"},
			},
			expectOutput: []string{"Saved events cleared", "No saved events."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up the store between tests.
			_ = os.Remove(storeFile)

			var allOutput strings.Builder
			for i, cmdArgs := range tt.commands {
				cmd := newCmd(t, home, cmdArgs...)
				var stdout bytes.Buffer
				cmd.Stdout = &stdout
				cmd.Stderr = &stdout

				err := cmd.Run()
				output := stdout.String()
				allOutput.WriteString(output)
				require.NoError(t, err, "Command %d failed: %v\nOutput: %s", i, cmdArgs, output)
			}

			finalOutput := allOutput.String()
			for _, expected := range tt.expectOutput {
				assert.Contains(t, finalOutput, expected, "Expected '%s' in output: %s", expected, finalOutput)
			}
		})
	}
}

func TestCLI_StoreFileFlag(t *testing.T) {
	home := t.TempDir()
	store := filepath.Join(t.TempDir(), "custom", "events.json")

	output, err := newCmd(t, home, "--store-file", store, "event", "add", "custom", "+1h").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.FileExists(t, store)
	assert.NoFileExists(t, defaultStorePath(home))
}

func TestCLI_ErrorHandling(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "no deadline",
			args:     []string{"run"},
			errorMsg: "no deadline",
		},
		{
			name:     "invalid until",
			args:     []string{"run", "--until", "someday"},
			errorMsg: "unrecognized deadline",
		},
		{
			name:     "negative in",
			args:     []string{"run", "--in", "-5s"},
			errorMsg: "negative duration",
		},
		{
			name:     "unknown event or deadline",
			args:     []string{"run", "nope"},
			errorMsg: "neither a saved event nor a deadline",
		},
		{
			name:     "json and tui together",
			args:     []string{"run", "--in", "1s", "--json", "--tui"},
			errorMsg: "Cannot use --json and --tui flags together",
		},
		{
			name:     "event add with wrong number of args",
			args:     []string{"event", "add", "only-name"},
			errorMsg: "accepts 2 arg(s)",
		},
		{
			name:     "event add with bad deadline",
			args:     []string{"event", "add", "x", "never"},
			errorMsg: "Invalid deadline",
		},
		{
			name:     "remove unknown event",
			args:     []string{"event", "remove", "ghost"},
			errorMsg: "event not found",
		},
		{
			name:     "invalid command",
			args:     []string{"invalid-command"},
			errorMsg: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, home, tt.args...).CombinedOutput()
			require.Error(t, err)
			assert.Contains(t, string(output), tt.errorMsg)
		})
	}
}
