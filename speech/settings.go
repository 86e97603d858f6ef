package speech

import (
	"math"
	"sync"
)

// Playback parameter bounds. Out-of-range finite values are clamped, not
// rejected.
const (
	MinRate     = 0.1
	MaxRate     = 10.0
	DefaultRate = 1.0

	MinPitch     = 0.0
	MaxPitch     = 2.0
	DefaultPitch = 1.0
)

// Settings holds the mutable playback parameters applied to every
// utterance.
type Settings struct {
	mu    sync.RWMutex
	rate  float64
	pitch float64
}

// NewSettings returns settings at their defaults.
func NewSettings() *Settings {
	return &Settings{rate: DefaultRate, pitch: DefaultPitch}
}

// SetRate updates the speech rate. Non-finite values are rejected with
// ErrNotFinite; finite values are clamped to [MinRate, MaxRate].
func (s *Settings) SetRate(v float64) error {
	if !isFinite(v) {
		return ErrNotFinite
	}
	s.mu.Lock()
	s.rate = clamp(v, MinRate, MaxRate)
	s.mu.Unlock()
	return nil
}

// SetPitch updates the pitch. Non-finite values are rejected with
// ErrNotFinite; finite values are clamped to [MinPitch, MaxPitch].
func (s *Settings) SetPitch(v float64) error {
	if !isFinite(v) {
		return ErrNotFinite
	}
	s.mu.Lock()
	s.pitch = clamp(v, MinPitch, MaxPitch)
	s.mu.Unlock()
	return nil
}

// Rate returns the current speech rate.
func (s *Settings) Rate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// Pitch returns the current pitch.
func (s *Settings) Pitch() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pitch
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
