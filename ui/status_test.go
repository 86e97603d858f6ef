package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"waytell/speech"
	"waytell/speech/engines/mock"
)

func newTestNarrator(t *testing.T) (*speech.Narrator, *mock.Engine) {
	t.Helper()
	eng := mock.New()
	eng.SetDuration(time.Hour)
	n, err := speech.New(eng, speech.Config{
		DrainInterval:      5 * time.Second,
		VoiceRetryInterval: 5 * time.Second,
		VoiceRetryAttempts: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(n.Destroy)
	return n, eng
}

func TestLineIdle(t *testing.T) {
	n, _ := newTestNarrator(t)
	v := NewStatusView(n)

	line := v.Line(0)
	if !strings.Contains(line, "idle") {
		t.Errorf("idle narrator line = %q, want an idle marker", line)
	}
	if !strings.Contains(line, "queued: 0") {
		t.Errorf("line = %q, want queue count", line)
	}
	if !strings.Contains(line, "Mock English") {
		t.Errorf("line = %q, want the selected voice name", line)
	}
}

func TestQueueChangedTracksSnapshot(t *testing.T) {
	n, eng := newTestNarrator(t)
	v := NewStatusView(n)
	cancel := n.Queue().Subscribe(v)
	defer cancel()

	// Keep the narrator busy so enqueued messages stay visible.
	if err := n.Speak("in flight", 1); err != nil {
		t.Fatal(err)
	}
	if err := n.Speak("next up", 5); err != nil {
		t.Fatal(err)
	}

	if got := eng.SpeakCalls(); got != 1 {
		t.Fatalf("engine calls = %d, want the first message in flight", got)
	}
	line := v.Line(0)
	if !strings.Contains(line, "queued: 1") {
		t.Errorf("line = %q, want one queued message", line)
	}
	if !strings.Contains(line, "next: next up") {
		t.Errorf("line = %q, want next-message preview", line)
	}
}

func TestLineTruncatesToWidth(t *testing.T) {
	n, _ := newTestNarrator(t)
	v := NewStatusView(n)

	line := v.Line(10)
	if got := runewidth.StringWidth(line); got > 10 {
		t.Errorf("line width = %d, want at most 10", got)
	}
}

func TestQueueLines(t *testing.T) {
	n, _ := newTestNarrator(t)
	v := NewStatusView(n)
	cancel := n.Queue().Subscribe(v)
	defer cancel()

	if err := n.Speak("busy", 1); err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{"first", "second", "third"} {
		if err := n.Speak(text, 2); err != nil {
			t.Fatal(err)
		}
	}

	lines := v.QueueLines(0, 2)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 2 messages plus an overflow marker", len(lines))
	}
	if !strings.Contains(lines[0], "first") {
		t.Errorf("first line = %q, want the first queued message", lines[0])
	}
	if !strings.Contains(lines[2], "1 more") {
		t.Errorf("overflow line = %q, want an overflow count", lines[2])
	}
}
