// Package espeak drives the espeak-ng synthesizer as a subprocess.
package espeak

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"waytell/speech"
)

// espeak-ng defaults: 175 words per minute, pitch 50 on a 0-99 scale. The
// narrator's rate/pitch multipliers are mapped onto those.
const (
	baseWPM   = 175
	basePitch = 50
	maxPitch  = 99
)

// Engine runs one espeak-ng process per utterance.
type Engine struct {
	binary string
	logger *log.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	speaking  bool
	cancelled bool
}

// New locates espeak-ng on PATH.
func New() (*Engine, error) {
	return NewWithBinary("espeak-ng")
}

// NewWithBinary uses a specific espeak binary.
func NewWithBinary(binary string) (*Engine, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("espeak binary %q not found: %w", binary, err)
	}
	return &Engine{binary: path, logger: log.WithPrefix("espeak")}, nil
}

// Voices lists the voices espeak-ng knows about.
func (e *Engine) Voices() []speech.Voice {
	out, err := exec.Command(e.binary, "--voices").Output()
	if err != nil {
		e.logger.Error("listing voices failed", "error", err)
		return nil
	}
	return parseVoices(string(out))
}

// parseVoices reads `espeak-ng --voices` output. Each line after the header
// is: Pty Language Age/Gender VoiceName File Other.
func parseVoices(out string) []speech.Voice {
	lines := strings.Split(out, "\n")
	voices := make([]speech.Voice, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, speech.Voice{
			ID:       fields[3],
			Name:     fields[3],
			Language: fields[1],
		})
	}
	return voices
}

// Speak spawns espeak-ng for the utterance and reports completion from a
// goroutine watching the process.
func (e *Engine) Speak(u speech.Utterance, onDone func(), onError func(error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.speaking {
		return fmt.Errorf("utterance already in flight")
	}

	cmd := exec.Command(e.binary, utteranceArgs(u)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting espeak: %w", err)
	}
	e.cmd = cmd
	e.speaking = true
	e.cancelled = false

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		e.speaking = false
		cancelled := e.cancelled
		e.mu.Unlock()

		if cancelled {
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onDone != nil {
			onDone()
		}
	}()
	return nil
}

// utteranceArgs maps an utterance onto espeak-ng flags.
func utteranceArgs(u speech.Utterance) []string {
	args := []string{
		"-s", strconv.Itoa(int(u.Rate * baseWPM)),
		"-p", strconv.Itoa(pitchValue(u.Pitch)),
	}
	if u.Voice.ID != "" {
		args = append(args, "-v", u.Voice.ID)
	}
	return append(args, "--", u.Text)
}

func pitchValue(pitch float64) int {
	p := int(pitch * basePitch)
	if p > maxPitch {
		p = maxPitch
	}
	return p
}

// Pause is not supported by a subprocess engine.
func (e *Engine) Pause() error { return speech.ErrPauseUnsupported }

// Resume is not supported by a subprocess engine.
func (e *Engine) Resume() error { return speech.ErrPauseUnsupported }

// Cancel kills the running espeak process, if any.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.speaking || e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	e.cancelled = true
	return e.cmd.Process.Kill()
}

// Speaking reports whether an espeak process is running.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking
}

// Paused always reports false; pausing is unsupported.
func (e *Engine) Paused() bool { return false }
