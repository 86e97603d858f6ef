// Package message defines the unit of work moved through the narration
// pipeline: a snippet of text with a priority and a creation time.
package message

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by New and NewAt.
var (
	ErrEmptyText   = errors.New("message text is empty")
	ErrBadPriority = errors.New("message priority must be a finite number")
)

// Message is an immutable piece of narration text. It is created by the
// queue on enqueue and discarded when dequeued, evicted, or expired.
type Message struct {
	ID        string
	Text      string
	Priority  float64
	Timestamp time.Time
}

// New creates a message stamped with the current time. Text is trimmed and
// must be non-empty; priority must be finite.
func New(text string, priority float64) (Message, error) {
	return NewAt(text, priority, time.Now())
}

// NewAt creates a message with an explicit creation time. A zero time is
// replaced with the current time.
func NewAt(text string, priority float64, ts time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyText
	}
	if math.IsNaN(priority) || math.IsInf(priority, 0) {
		return Message{}, ErrBadPriority
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Priority:  priority,
		Timestamp: ts,
	}, nil
}

// Age returns how long ago the message was created.
func (m Message) Age() time.Duration {
	return time.Since(m.Timestamp)
}

// Expired reports whether the message has reached maxAge. The boundary is
// inclusive: a message aged exactly maxAge counts as expired.
func (m Message) Expired(maxAge time.Duration) bool {
	return m.Age() >= maxAge
}
