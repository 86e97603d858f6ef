package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"waytell/speech"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type keyMap struct {
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the interactive pipeline monitor used by the demo command.
type Model struct {
	narrator *speech.Narrator
	status   *StatusView
	spin     spinner.Model
	keys     keyMap
	width    int
	quitting bool
}

// NewModel builds the TUI around a running narrator. The returned model's
// status view is already subscribed to the queue.
func NewModel(n *speech.Narrator) Model {
	sv := NewStatusView(n)
	n.Queue().Subscribe(sv)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		narrator: n,
		status:   sv,
		spin:     sp,
		keys:     defaultKeyMap(),
		width:    80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Pause):
			_ = m.narrator.Pause()
		case key.Matches(msg, m.keys.Resume):
			_ = m.narrator.Resume()
		case key.Matches(msg, m.keys.Stop):
			m.narrator.Stop()
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := titleStyle.Render("waytell")
	if m.narrator.Speaking() {
		title += " " + m.spin.View()
	}
	b.WriteString(title + "\n\n")
	b.WriteString(m.status.Line(m.width) + "\n")

	if lines := m.status.QueueLines(m.width, 10); len(lines) > 0 {
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString(l + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("p pause · r resume · s stop · q quit"))
	return b.String()
}
