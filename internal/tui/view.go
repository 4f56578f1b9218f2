package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	board := m.board.View()
	boardWidth := max(lipgloss.Width(board), boardMinWidth)

	var b strings.Builder
	if m.helpVisible {
		b.WriteString(renderHelp())
		b.WriteString("\n\n")
	}
	if !m.expired {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(renderHeader(m.label, m.deadline))
	b.WriteString("\n\n")
	b.WriteString(board)
	b.WriteString("\n\n")

	bar := m.progress
	bar.Width = boardWidth
	b.WriteString(bar.ViewAs(m.elapsed()))
	b.WriteString("\n")

	if m.expired {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(doneColor)).Bold(true).Render("⏰ Time's up!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderFooter(m.stopwatch.View()))

	out := b.String()
	if m.width > 0 {
		out = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, out)
	}
	return out
}

func renderHeader(label string, deadline time.Time) string {
	title := label
	if title == "" {
		title = "Countdown"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(alertColor))
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color(labelColor)).
		Render("until " + deadline.Format("Mon, 02 Jan 2006 15:04:05 MST"))
	return titleStyle.Render(title) + "  " + subtitle
}

func renderFooter(running string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(labelColor)).
		Render("running " + running + " • q/esc: quit • h/?: help")
}

func renderHelp() string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color(digitColor))
	content := []string{
		"Help",
		"",
		"h/?: toggle this help",
		"q/esc/ctrl+c: quit",
	}
	return border.Render(strings.Join(content, "\n"))
}
