package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waytell.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid mock engine", func(c *Config) { c.Engine = "mock" }, false},
		{"unknown engine", func(c *Config) { c.Engine = "festival" }, true},
		{"zero rate", func(c *Config) { c.Rate = 0 }, true},
		{"negative pitch", func(c *Config) { c.Pitch = -0.5 }, true},
		{"zero pitch is fine", func(c *Config) { c.Pitch = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, "engine: mock\nrate: 2.5\nqueue_size: 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine != "mock" {
		t.Errorf("engine = %q, want mock", cfg.Engine)
	}
	if cfg.Rate != 2.5 {
		t.Errorf("rate = %v, want 2.5", cfg.Rate)
	}
	if cfg.QueueSize != 10 {
		t.Errorf("queue_size = %d, want 10", cfg.QueueSize)
	}
	// Untouched fields keep their defaults.
	if cfg.Pitch != 1.0 {
		t.Errorf("pitch = %v, want default 1.0", cfg.Pitch)
	}
	if cfg.AnnounceEvery != 5*time.Second {
		t.Errorf("announce_every = %v, want default 5s", cfg.AnnounceEvery)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yml")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an explicitly named missing file")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "engine: bogus\n")
	if _, err := Load(path); err == nil {
		t.Error("expected a validation error for an unknown engine")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "engine: espeak\nrate: 2.0\n")

	t.Setenv("WAYTELL_ENGINE", "mock")
	t.Setenv("WAYTELL_RATE", "3.5")
	t.Setenv("WAYTELL_MESSAGE_MAX_AGE", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine != "mock" {
		t.Errorf("engine = %q, want env override mock", cfg.Engine)
	}
	if cfg.Rate != 3.5 {
		t.Errorf("rate = %v, want env override 3.5", cfg.Rate)
	}
	if cfg.MessageMaxAge != 30*time.Second {
		t.Errorf("message_max_age = %v, want 30s", cfg.MessageMaxAge)
	}
}

func TestEnvironmentValidatedToo(t *testing.T) {
	path := writeConfig(t, "engine: mock\n")
	t.Setenv("WAYTELL_RATE", "-1")

	if _, err := Load(path); err == nil {
		t.Error("expected a validation error for a negative rate from the environment")
	}
}
