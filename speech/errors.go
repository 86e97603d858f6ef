package speech

import "errors"

// Errors returned by the speech package.
var (
	// ErrNoEngine is returned when a Narrator is constructed without a
	// narration engine. Nothing can be spoken without one.
	ErrNoEngine = errors.New("narration engine is required")

	// ErrNotFinite is returned when a rate or pitch value is NaN or infinite.
	ErrNotFinite = errors.New("value must be a finite number")

	// ErrNoVoice is returned when a voice without an identifier is supplied.
	ErrNoVoice = errors.New("voice has no identifier")

	// ErrPauseUnsupported is returned by engines that cannot pause a
	// running utterance.
	ErrPauseUnsupported = errors.New("engine does not support pausing")
)
