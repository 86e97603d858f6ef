// Package speech schedules and speaks narration text. It serializes access
// to a single asynchronous text-to-speech engine, retries voice selection
// while the engine's voice list loads, and exposes playback controls.
package speech

// Voice identifies a synthesis voice offered by an engine.
type Voice struct {
	ID       string // engine-specific identifier
	Name     string // human-readable name
	Language string // BCP 47 tag, e.g. "en-US"
}

// Utterance is one narration request handed to an engine.
type Utterance struct {
	Text  string
	Voice Voice
	Rate  float64
	Pitch float64
}

// Engine is the external text-to-speech service the narrator drives. Speak
// is asynchronous: it returns once the utterance is submitted and later
// invokes exactly one of onDone or onError. The voice list may populate
// asynchronously after startup, so Voices can be empty at first and grow on
// later calls.
type Engine interface {
	// Voices returns the voices currently known to the engine.
	Voices() []Voice

	// Speak submits an utterance. A non-nil return means the submission
	// itself failed and neither callback will fire.
	Speak(u Utterance, onDone func(), onError func(error)) error

	// Pause suspends the current utterance.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error

	// Cancel discards the current utterance, if any.
	Cancel() error

	// Speaking reports whether an utterance is in flight.
	Speaking() bool

	// Paused reports whether the current utterance is paused.
	Paused() bool
}
