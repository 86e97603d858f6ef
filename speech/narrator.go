package speech

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"waytell/internal/queue"
	"waytell/internal/ticker"
)

// Config holds the narrator's construction parameters. Zero fields fall
// back to the defaults below.
type Config struct {
	QueueSize          int           // queued messages kept at most
	MessageMaxAge      time.Duration // messages older than this are dropped
	DrainInterval      time.Duration // cadence of the drain loop
	VoiceRetryInterval time.Duration // cadence of the voice retry loop
	VoiceRetryAttempts int           // retry budget before giving up
	Locale             string        // preferred voice locale
	VoiceName          string        // preferred voice name, fuzzy-matched
}

// DefaultConfig returns the narrator defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:          50,
		MessageMaxAge:      time.Minute,
		DrainInterval:      500 * time.Millisecond,
		VoiceRetryInterval: 250 * time.Millisecond,
		VoiceRetryAttempts: 10,
		Locale:             "en-US",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.QueueSize == 0 {
		c.QueueSize = def.QueueSize
	}
	if c.MessageMaxAge == 0 {
		c.MessageMaxAge = def.MessageMaxAge
	}
	if c.DrainInterval == 0 {
		c.DrainInterval = def.DrainInterval
	}
	if c.VoiceRetryInterval == 0 {
		c.VoiceRetryInterval = def.VoiceRetryInterval
	}
	if c.VoiceRetryAttempts == 0 {
		c.VoiceRetryAttempts = def.VoiceRetryAttempts
	}
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	return c
}

// Narrator owns the speech pipeline: it drains the queue one message at a
// time into the engine, keeps looking for a preferred voice while the
// engine's voice list loads, and exposes playback controls. At most one
// utterance is in flight at any time.
type Narrator struct {
	engine   Engine
	queue    *queue.Queue
	settings *Settings
	prefs    VoicePrefs
	logger   *log.Logger

	drain      *ticker.Ticker
	voiceRetry *ticker.Ticker

	mu          sync.Mutex
	speaking    bool
	paused      bool
	voice       Voice
	voiceOK     bool
	attempts    int
	maxAttempts int
}

// New creates a narrator around the given engine and starts its drain and
// voice-retry loops. A nil engine is a fatal construction error.
func New(engine Engine, cfg Config) (*Narrator, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}
	cfg = cfg.withDefaults()

	q, err := queue.New(cfg.QueueSize, cfg.MessageMaxAge)
	if err != nil {
		return nil, fmt.Errorf("narration queue: %w", err)
	}

	n := &Narrator{
		engine:      engine,
		queue:       q,
		settings:    NewSettings(),
		prefs:       VoicePrefs{Locale: cfg.Locale, Name: cfg.VoiceName},
		logger:      log.WithPrefix("speech"),
		maxAttempts: cfg.VoiceRetryAttempts,
	}

	n.drain, err = ticker.New(n.processQueue, cfg.DrainInterval)
	if err != nil {
		return nil, fmt.Errorf("drain ticker: %w", err)
	}
	n.voiceRetry, err = ticker.New(n.retryVoice, cfg.VoiceRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("voice retry ticker: %w", err)
	}

	// First attempt at construction time; the retry loop covers engines
	// whose voice list fills in later.
	n.mu.Lock()
	n.selectVoice()
	preferred := n.voiceOK
	n.mu.Unlock()

	if !preferred {
		n.voiceRetry.Start()
	}
	n.drain.Start()

	return n, nil
}

// Speak enqueues text for narration and, when idle, immediately runs one
// drain cycle. Items enqueued while speaking are picked up by the drain
// loop once the current utterance ends.
func (n *Narrator) Speak(text string, priority float64) error {
	if _, err := n.queue.Enqueue(text, priority); err != nil {
		return err
	}

	// A prior Stop halts the drain loop; speaking again revives it.
	n.drain.Start()

	n.mu.Lock()
	busy := n.speaking
	n.mu.Unlock()
	if !busy {
		n.processQueue()
	}
	return nil
}

// processQueue runs one drain cycle: pop the highest-priority message and
// hand it to the engine. A no-op while an utterance is in flight or the
// queue is empty.
func (n *Narrator) processQueue() {
	n.mu.Lock()
	if n.speaking {
		n.mu.Unlock()
		return
	}
	msg, err := n.queue.Dequeue()
	if err != nil {
		n.mu.Unlock()
		return
	}
	n.speaking = true
	utt := Utterance{
		Text:  msg.Text,
		Voice: n.voice,
		Rate:  n.settings.Rate(),
		Pitch: n.settings.Pitch(),
	}
	n.mu.Unlock()

	n.logger.Debug("speaking", "id", msg.ID, "priority", msg.Priority, "chars", len(msg.Text))

	onDone := func() {
		n.clearSpeaking()
		n.processQueue()
	}
	onError := func(err error) {
		n.logger.Error("utterance failed", "id", msg.ID, "error", err)
		n.clearSpeaking()
		n.processQueue()
	}

	if err := n.engine.Speak(utt, onDone, onError); err != nil {
		// A submission failure must never stall the pipeline.
		n.logger.Error("submitting utterance failed", "id", msg.ID, "error", err)
		n.clearSpeaking()
	}
}

func (n *Narrator) clearSpeaking() {
	n.mu.Lock()
	n.speaking = false
	n.paused = false
	n.mu.Unlock()
}

// retryVoice is the voice-retry loop body. It stops its own ticker once a
// preferred voice is found or the attempt budget is spent.
func (n *Narrator) retryVoice() {
	n.mu.Lock()
	if n.voiceOK || n.attempts >= n.maxAttempts {
		n.mu.Unlock()
		n.voiceRetry.Stop()
		return
	}
	n.attempts++
	n.selectVoice()
	found := n.voiceOK
	attempts := n.attempts
	n.mu.Unlock()

	if found {
		n.logger.Debug("preferred voice acquired", "attempts", attempts)
		n.voiceRetry.Stop()
	} else if attempts >= n.maxAttempts {
		n.logger.Warn("giving up on preferred voice", "attempts", attempts, "locale", n.prefs.Locale)
		n.voiceRetry.Stop()
	}
}

// selectVoice re-runs voice selection against the engine's current voice
// list. Caller must hold n.mu.
func (n *Narrator) selectVoice() {
	v, preferred := ChooseVoice(n.engine.Voices(), n.prefs)
	if v.ID != "" {
		n.voice = v
	}
	n.voiceOK = preferred
}

// Pause suspends the current utterance. It only takes effect while the
// engine reports it is speaking.
func (n *Narrator) Pause() error {
	if !n.engine.Speaking() {
		return nil
	}
	if err := n.engine.Pause(); err != nil {
		return err
	}
	n.mu.Lock()
	n.paused = true
	n.mu.Unlock()
	return nil
}

// Resume continues a paused utterance. It only takes effect while the
// engine reports it is paused.
func (n *Narrator) Resume() error {
	if !n.engine.Paused() {
		return nil
	}
	if err := n.engine.Resume(); err != nil {
		return err
	}
	n.mu.Lock()
	n.paused = false
	n.mu.Unlock()
	return nil
}

// Stop cancels the current utterance, clears the queue, and halts the drain
// loop. Safe to call in any state, any number of times.
func (n *Narrator) Stop() {
	if err := n.engine.Cancel(); err != nil {
		n.logger.Error("cancelling utterance failed", "error", err)
	}
	n.queue.Clear()
	n.clearSpeaking()
	n.drain.Stop()
}

// Destroy stops the narrator and releases both recurring loops. Idempotent.
func (n *Narrator) Destroy() {
	n.Stop()
	n.voiceRetry.Destroy()
	n.drain.Destroy()
}

// SetRate updates the speech rate following Settings clamping rules.
func (n *Narrator) SetRate(v float64) error { return n.settings.SetRate(v) }

// SetPitch updates the pitch following Settings clamping rules.
func (n *Narrator) SetPitch(v float64) error { return n.settings.SetPitch(v) }

// Rate returns the current speech rate.
func (n *Narrator) Rate() float64 { return n.settings.Rate() }

// Pitch returns the current pitch.
func (n *Narrator) Pitch() float64 { return n.settings.Pitch() }

// SetVoice overrides the selected voice and ends the retry loop.
func (n *Narrator) SetVoice(v Voice) error {
	if v.ID == "" {
		return ErrNoVoice
	}
	n.mu.Lock()
	n.voice = v
	n.voiceOK = true
	n.mu.Unlock()
	n.voiceRetry.Stop()
	return nil
}

// Voice returns the currently selected voice.
func (n *Narrator) Voice() Voice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.voice
}

// Speaking reports whether an utterance is in flight.
func (n *Narrator) Speaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speaking
}

// Paused reports whether playback is paused.
func (n *Narrator) Paused() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.paused
}

// Queue exposes the underlying queue for listener subscription and
// inspection.
func (n *Narrator) Queue() *queue.Queue { return n.queue }
