package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/countdown/internal/countdown"
	"github.com/ensigniasec/countdown/internal/storage"
)

// ErrNoEvents is returned by Pick when there is nothing to choose from.
var ErrNoEvents = errors.New("no saved events")

const (
	pickerWidth  = 60
	pickerHeight = 14
)

// eventItem is the list item backing a saved event row.
type eventItem struct {
	event storage.Event
	now   time.Time
}

// List item interface methods.
func (it eventItem) Title() string       { return it.event.Name }
func (it eventItem) Description() string { return it.event.Label }
func (it eventItem) FilterValue() string { return it.event.Name + " " + it.event.Label }

// eventDelegate renders eventItem rows with the remaining time right-justified.
type eventDelegate struct{}

func (d eventDelegate) Height() int                             { return 1 }
func (d eventDelegate) Spacing() int                            { return 0 }
func (d eventDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d eventDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(eventItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = lineStyle.Foreground(lipgloss.Color(digitColor)).Bold(true)
	}

	left := fmt.Sprintf("%s%02d. %s", leftPrefix, index+1, it.event.Name)

	rem := countdown.DecomposeTime(it.event.Deadline, it.now)
	right := rem.String()
	if rem.IsZero() {
		right = lipgloss.NewStyle().Foreground(lipgloss.Color(doneColor)).Render("done")
	}

	padding := max(m.Width()-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + lipgloss.NewStyle().Width(padding).Render("") + right
	_, _ = fmt.Fprint(w, lineStyle.Render(line))
}

// pickerModel lets the user choose one saved event.
type pickerModel struct {
	list     list.Model
	keys     keyMap
	chosen   *storage.Event
	quitting bool
}

func newPickerModel(events []storage.Event, now time.Time) pickerModel {
	items := make([]list.Item, 0, len(events))
	for _, ev := range events {
		items = append(items, eventItem{event: ev, now: now})
	}
	l := list.New(items, eventDelegate{}, pickerWidth, pickerHeight)
	l.Title = "Saved events"
	l.SetShowStatusBar(false)
	return pickerModel{list: l, keys: newKeyMap()}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(x.Width, min(x.Height, pickerHeight))
		return m, nil
	case tea.KeyMsg:
		// Let the filter input have the keys while the user is typing.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(x, m.keys.Select):
			if it, ok := m.list.SelectedItem().(eventItem); ok {
				ev := it.event
				m.chosen = &ev
			}
			return m, tea.Quit
		case key.Matches(x, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.chosen != nil || m.quitting {
		return ""
	}
	return m.list.View()
}

// Pick shows the saved events and returns the one the user selects.
// ErrQuit is returned when the user backs out without choosing.
func Pick(ctx context.Context, events []storage.Event, input io.Reader, output io.Writer) (storage.Event, error) {
	if len(events) == 0 {
		return storage.Event{}, ErrNoEvents
	}
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if input != nil {
		progOpts = append(progOpts, tea.WithInput(input))
	}
	if output != nil {
		progOpts = append(progOpts, tea.WithOutput(output))
	}
	final, err := tea.NewProgram(newPickerModel(events, time.Now()), progOpts...).Run()
	if err != nil {
		return storage.Event{}, err
	}
	m, ok := final.(pickerModel)
	if !ok || m.chosen == nil {
		return storage.Event{}, ErrQuit
	}
	return *m.chosen, nil
}
