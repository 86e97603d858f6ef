// Package guide turns position updates into narration. It owns no
// geocoding; callers hand it already-resolved addresses and it decides what
// is worth saying, at what priority, and how often.
package guide

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Announcement priorities, most significant change first.
const (
	PriorityCountry = 5.0
	PriorityCity    = 3.0
	PrioritySuburb  = 2.0
	PriorityRoad    = 1.0
)

// ErrNoSpeaker is returned when an Announcer is constructed without a
// speaker.
var ErrNoSpeaker = errors.New("announcer needs a speaker")

// Speaker is the sink for announcements, usually a speech.Narrator.
type Speaker interface {
	Speak(text string, priority float64) error
}

// Address is a resolved location. Empty fields are simply unknown.
type Address struct {
	Road    string
	Suburb  string
	City    string
	Region  string
	Country string
}

// Announcer narrates address changes, rate-limited so a jittery position
// source cannot flood the queue.
type Announcer struct {
	speaker Speaker
	limiter *rate.Limiter
	logger  *log.Logger

	mu   sync.Mutex
	last Address
	seen bool
}

// NewAnnouncer creates an announcer that speaks at most once per
// minInterval.
func NewAnnouncer(s Speaker, minInterval time.Duration) (*Announcer, error) {
	if s == nil {
		return nil, ErrNoSpeaker
	}
	if minInterval <= 0 {
		minInterval = 5 * time.Second
	}
	return &Announcer{
		speaker: s,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		logger:  log.WithPrefix("guide"),
	}, nil
}

// AddressChanged compares the new address against the previous one and
// narrates the most significant change. Rate-limited announcements are
// dropped, not queued.
func (a *Announcer) AddressChanged(addr Address) error {
	a.mu.Lock()
	prev, seen := a.last, a.seen
	a.last = addr
	a.seen = true
	a.mu.Unlock()

	text, priority := announcement(prev, addr, !seen)
	if text == "" {
		return nil
	}
	if !a.limiter.Allow() {
		a.logger.Debug("announcement rate-limited", "text", text)
		return nil
	}
	return a.speaker.Speak(text, priority)
}

// announcement composes the narration for an address transition.
func announcement(prev, cur Address, first bool) (string, float64) {
	if first {
		if place := placeName(cur); place != "" {
			return "Starting in " + place, PriorityCity
		}
		return "", 0
	}

	switch {
	case cur.Country != "" && cur.Country != prev.Country:
		return "Welcome to " + cur.Country, PriorityCountry
	case cur.City != "" && cur.City != prev.City:
		text := "Now entering " + cur.City
		if cur.Region != "" {
			text += ", " + cur.Region
		}
		return text, PriorityCity
	case cur.Suburb != "" && cur.Suburb != prev.Suburb:
		return "Passing through " + cur.Suburb, PrioritySuburb
	case cur.Road != "" && cur.Road != prev.Road:
		return fmt.Sprintf("Now on %s", cur.Road), PriorityRoad
	}
	return "", 0
}

// placeName joins the broadest known locality fields.
func placeName(a Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.City, a.Region, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
