package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/countdown/internal/countdown"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(x)

	case tickMsg:
		m.remaining = countdown.Remaining(x)
		cmds := []tea.Cmd{m.listenForTicks()}
		if m.remaining.IsZero() && !m.expired {
			m.expired = true
			if m.exitAtZero {
				m.quitting = true
				return m, tea.Quit
			}
			cmds = append(cmds, m.stopwatch.Stop())
		}
		// A tick may have started new transitions; make sure frames are flowing.
		if !m.framing {
			m.framing = true
			cmds = append(cmds, m.nextFrame())
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if m.board.Advance() {
			return m, m.nextFrame()
		}
		m.framing = false
		return m, nil
	}

	// Spinner and stopwatch ignore messages that are not theirs.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.stopwatch, cmd = m.stopwatch.Update(msg)
	cmds = append(cmds, cmd)
	if !m.expired {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	}

	return m, nil
}
