package espeak

import (
	"reflect"
	"testing"

	"waytell/speech"
)

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  de              --/M      German             gmw/de
 5  en-gb           --/M      English_(Great_Britain) gmw/en
 5  pt-br           --/M      Portuguese_(Brazil) roa/pt-BR
malformed line
`

func TestParseVoices(t *testing.T) {
	voices := parseVoices(voicesOutput)
	if len(voices) != 4 {
		t.Fatalf("parsed %d voices, want 4", len(voices))
	}

	want := speech.Voice{
		ID:       "Portuguese_(Brazil)",
		Name:     "Portuguese_(Brazil)",
		Language: "pt-br",
	}
	if voices[3] != want {
		t.Errorf("voice = %+v, want %+v", voices[3], want)
	}
}

func TestParseVoicesEmptyOutput(t *testing.T) {
	if got := parseVoices(""); len(got) != 0 {
		t.Errorf("parsed %d voices from empty output", len(got))
	}
}

func TestUtteranceArgs(t *testing.T) {
	tests := []struct {
		name string
		utt  speech.Utterance
		want []string
	}{
		{
			name: "defaults",
			utt:  speech.Utterance{Text: "hello", Rate: 1.0, Pitch: 1.0},
			want: []string{"-s", "175", "-p", "50", "--", "hello"},
		},
		{
			name: "with voice",
			utt: speech.Utterance{
				Text:  "olá",
				Voice: speech.Voice{ID: "pt-br"},
				Rate:  1.0,
				Pitch: 1.0,
			},
			want: []string{"-s", "175", "-p", "50", "-v", "pt-br", "--", "olá"},
		},
		{
			name: "double rate",
			utt:  speech.Utterance{Text: "fast", Rate: 2.0, Pitch: 1.0},
			want: []string{"-s", "350", "-p", "50", "--", "fast"},
		},
		{
			name: "pitch clamped to espeak ceiling",
			utt:  speech.Utterance{Text: "high", Rate: 1.0, Pitch: 2.0},
			want: []string{"-s", "175", "-p", "99", "--", "high"},
		},
		{
			name: "leading dash text is not a flag",
			utt:  speech.Utterance{Text: "-rf /", Rate: 1.0, Pitch: 1.0},
			want: []string{"-s", "175", "-p", "50", "--", "-rf /"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utteranceArgs(tt.utt); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPitchValue(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1.0, 50},
		{1.5, 75},
		{2.0, 99},
	}
	for _, tt := range tests {
		if got := pitchValue(tt.in); got != tt.want {
			t.Errorf("pitchValue(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPauseUnsupported(t *testing.T) {
	e := &Engine{}
	if err := e.Pause(); err != speech.ErrPauseUnsupported {
		t.Errorf("Pause error = %v, want ErrPauseUnsupported", err)
	}
	if err := e.Resume(); err != speech.ErrPauseUnsupported {
		t.Errorf("Resume error = %v, want ErrPauseUnsupported", err)
	}
	if e.Paused() {
		t.Error("Paused must always be false")
	}
}

func TestNewWithMissingBinary(t *testing.T) {
	if _, err := NewWithBinary("definitely-not-a-real-synth"); err == nil {
		t.Error("expected an error for a missing binary")
	}
}
