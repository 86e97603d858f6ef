// Package ticker provides a small recurring-task driver: it invokes a
// callback on a fixed interval and survives panics raised by the callback.
package ticker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Interval bounds enforced by New and SetInterval.
const (
	MinInterval = 10 * time.Millisecond
	MaxInterval = 5 * time.Second
)

// ErrNilCallback is returned by New when no callback is supplied.
var ErrNilCallback = errors.New("ticker callback is required")

// Ticker drives a callback on a fixed interval. The zero value is not
// usable; construct one with New.
type Ticker struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	stop     chan struct{}
	running  bool
}

// New creates a stopped ticker. The interval must lie within
// [MinInterval, MaxInterval].
func New(fn func(), interval time.Duration) (*Ticker, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	if err := validateInterval(interval); err != nil {
		return nil, err
	}
	return &Ticker{fn: fn, interval: interval}, nil
}

// Start begins invoking the callback every interval. Starting a running
// ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.fn == nil {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	go t.run(t.interval, t.stop)
}

// Stop halts invocation. Stopping a stopped ticker is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
	t.stop = nil
}

// Restart stops and restarts a running ticker, optionally with a new
// interval. On a stopped ticker only the stored interval is updated.
func (t *Ticker) Restart(interval ...time.Duration) error {
	if len(interval) > 0 {
		if err := t.SetInterval(interval[0]); err != nil {
			return err
		}
	}

	t.mu.Lock()
	running := t.running
	t.mu.Unlock()

	if running {
		t.Stop()
		t.Start()
	}
	return nil
}

// SetInterval stores a new interval. A running ticker keeps its current
// cadence until the next Restart.
func (t *Ticker) SetInterval(interval time.Duration) error {
	if err := validateInterval(interval); err != nil {
		return err
	}
	t.mu.Lock()
	t.interval = interval
	t.mu.Unlock()
	return nil
}

// Interval returns the configured interval.
func (t *Ticker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Running reports whether the ticker is currently driving its callback.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Destroy stops the ticker and releases the callback. Safe to call more
// than once; a destroyed ticker cannot be restarted.
func (t *Ticker) Destroy() {
	t.Stop()
	t.mu.Lock()
	t.fn = nil
	t.mu.Unlock()
}

func (t *Ticker) run(interval time.Duration, stop chan struct{}) {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			t.invoke()
		}
	}
}

// invoke runs the callback, containing any panic it raises.
func (t *Ticker) invoke() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("ticker callback panicked", "panic", r)
		}
	}()
	fn()
}

func validateInterval(interval time.Duration) error {
	if interval < MinInterval || interval > MaxInterval {
		return fmt.Errorf("interval %s out of range [%s, %s]", interval, MinInterval, MaxInterval)
	}
	return nil
}
