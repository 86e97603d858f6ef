package speech

import (
	"errors"
	"math"
	"testing"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewSettings()
	if got := s.Rate(); got != DefaultRate {
		t.Errorf("default rate = %v, want %v", got, DefaultRate)
	}
	if got := s.Pitch(); got != DefaultPitch {
		t.Errorf("default pitch = %v, want %v", got, DefaultPitch)
	}
}

func TestSetRateClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 2.5, 2.5},
		{"above max", 15, 10.0},
		{"below min", 0.01, 0.1},
		{"at max", 10.0, 10.0},
		{"at min", 0.1, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			if err := s.SetRate(tt.in); err != nil {
				t.Fatal(err)
			}
			if got := s.Rate(); got != tt.want {
				t.Errorf("SetRate(%v): rate = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetPitchClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 1.5, 1.5},
		{"above max", 5, 2.0},
		{"below min", -1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			if err := s.SetPitch(tt.in); err != nil {
				t.Fatal(err)
			}
			if got := s.Pitch(); got != tt.want {
				t.Errorf("SetPitch(%v): pitch = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNonFiniteValuesRejected(t *testing.T) {
	s := NewSettings()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.SetRate(v); !errors.Is(err, ErrNotFinite) {
			t.Errorf("SetRate(%v) error = %v, want ErrNotFinite", v, err)
		}
		if err := s.SetPitch(v); !errors.Is(err, ErrNotFinite) {
			t.Errorf("SetPitch(%v) error = %v, want ErrNotFinite", v, err)
		}
	}
	if s.Rate() != DefaultRate || s.Pitch() != DefaultPitch {
		t.Error("rejected values must leave settings untouched")
	}
}
