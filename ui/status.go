// Package ui renders narrator and queue state for the terminal.
package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"waytell/internal/message"
	"waytell/internal/queue"
	"waytell/speech"
)

var (
	speakingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// StatusView is a queue listener that keeps a renderable snapshot of the
// pipeline. Subscribe it to the narrator's queue.
type StatusView struct {
	narrator *speech.Narrator

	mu       sync.Mutex
	messages []message.Message
}

// NewStatusView creates a view over the given narrator.
func NewStatusView(n *speech.Narrator) *StatusView {
	return &StatusView{narrator: n}
}

// QueueChanged implements queue.Listener.
func (v *StatusView) QueueChanged(q *queue.Queue) {
	snapshot := q.PeekAll()
	v.mu.Lock()
	v.messages = snapshot
	v.mu.Unlock()
}

// Line renders a one-line status bar fitted to width.
func (v *StatusView) Line(width int) string {
	v.mu.Lock()
	msgs := v.messages
	v.mu.Unlock()

	var state string
	switch {
	case v.narrator.Paused():
		state = pausedStyle.Render("⏸ paused")
	case v.narrator.Speaking():
		state = speakingStyle.Render("▶ speaking")
	default:
		state = idleStyle.Render("■ idle")
	}

	parts := []string{state}
	if voice := v.narrator.Voice(); voice.ID != "" {
		parts = append(parts, faintStyle.Render(voice.Name+" ("+voice.Language+")"))
	}
	parts = append(parts, fmt.Sprintf("queued: %d", len(msgs)))
	if len(msgs) > 0 {
		parts = append(parts, faintStyle.Render("next: "+msgs[0].Text))
	}

	line := strings.Join(parts, "  ")
	if width > 0 && runewidth.StringWidth(line) > width {
		line = truncate.StringWithTail(line, uint(width), "…")
	}
	return line
}

// QueueLines renders one line per queued message, newest state first by
// narration order.
func (v *StatusView) QueueLines(width, max int) []string {
	v.mu.Lock()
	msgs := v.messages
	v.mu.Unlock()

	lines := make([]string, 0, len(msgs))
	for i, m := range msgs {
		if max > 0 && i >= max {
			lines = append(lines, faintStyle.Render(fmt.Sprintf("… and %d more", len(msgs)-max)))
			break
		}
		line := fmt.Sprintf("%5.1f  %s  %s", m.Priority, m.Text, faintStyle.Render(humanize.Time(m.Timestamp)))
		if width > 0 && runewidth.StringWidth(line) > width {
			line = truncate.StringWithTail(line, uint(width), "…")
		}
		lines = append(lines, line)
	}
	return lines
}
