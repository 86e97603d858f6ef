// Package mock provides an in-memory narration engine for tests and the
// demo command. Utterances complete asynchronously after a configurable
// duration, and the voice list can be held back to exercise voice-retry
// behavior.
package mock

import (
	"errors"
	"sync"
	"time"

	"waytell/speech"
)

// Engine implements speech.Engine without producing audio.
type Engine struct {
	mu       sync.Mutex
	voices   []speech.Voice
	hidden   int
	duration time.Duration

	submitErr error
	uttErr    error

	speaking bool
	paused   bool
	timer    *time.Timer
	onDone   func()
	onError  func(error)

	calls int
	last  speech.Utterance
}

// New returns an engine with a single en-US voice and fast utterances.
func New() *Engine {
	return &Engine{
		duration: 30 * time.Millisecond,
		voices: []speech.Voice{
			{ID: "mock-en-us", Name: "Mock English", Language: "en-US"},
		},
	}
}

// Voices returns the configured voice list, or nil while it is hidden.
func (e *Engine) Voices() []speech.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hidden > 0 {
		e.hidden--
		return nil
	}
	return append([]speech.Voice(nil), e.voices...)
}

// Speak starts an utterance that completes after the configured duration.
func (e *Engine) Speak(u speech.Utterance, onDone func(), onError func(error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls++
	e.last = u
	if e.submitErr != nil {
		return e.submitErr
	}

	e.speaking = true
	e.paused = false
	e.onDone = onDone
	e.onError = onError
	e.timer = time.AfterFunc(e.duration, e.finish)
	return nil
}

func (e *Engine) finish() {
	e.mu.Lock()
	if !e.speaking {
		e.mu.Unlock()
		return
	}
	e.speaking = false
	e.paused = false
	done, fail, err := e.onDone, e.onError, e.uttErr
	e.mu.Unlock()

	if err != nil {
		if fail != nil {
			fail(err)
		}
		return
	}
	if done != nil {
		done()
	}
}

// Pause suspends the running utterance.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.speaking {
		return errors.New("no utterance in flight")
	}
	if e.paused {
		return errors.New("already paused")
	}
	e.paused = true
	e.timer.Stop()
	return nil
}

// Resume restarts a paused utterance. The mock does not track elapsed time;
// the utterance runs for its full duration again.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		return errors.New("not paused")
	}
	e.paused = false
	e.timer = time.AfterFunc(e.duration, e.finish)
	return nil
}

// Cancel discards the current utterance without firing callbacks.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.speaking = false
	e.paused = false
	return nil
}

// Speaking reports whether an utterance is in flight.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking
}

// Paused reports whether the current utterance is paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Test controls.

// SetVoices replaces the voice list.
func (e *Engine) SetVoices(vs []speech.Voice) {
	e.mu.Lock()
	e.voices = append([]speech.Voice(nil), vs...)
	e.mu.Unlock()
}

// HideVoices makes the next n calls to Voices return an empty list,
// simulating a voice list that loads asynchronously.
func (e *Engine) HideVoices(n int) {
	e.mu.Lock()
	e.hidden = n
	e.mu.Unlock()
}

// SetDuration sets how long each utterance takes to complete.
func (e *Engine) SetDuration(d time.Duration) {
	e.mu.Lock()
	e.duration = d
	e.mu.Unlock()
}

// FailSubmit makes Speak return err synchronously.
func (e *Engine) FailSubmit(err error) {
	e.mu.Lock()
	e.submitErr = err
	e.mu.Unlock()
}

// FailUtterance makes every utterance end with onError(err).
func (e *Engine) FailUtterance(err error) {
	e.mu.Lock()
	e.uttErr = err
	e.mu.Unlock()
}

// SpeakCalls returns how many times Speak was invoked.
func (e *Engine) SpeakCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// LastUtterance returns the most recently submitted utterance.
func (e *Engine) LastUtterance() speech.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}
