// Package config loads waytell settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to build a narrator and announcer.
// Environment variables (WAYTELL_*) override file values.
type Config struct {
	Engine    string  `yaml:"engine" env:"WAYTELL_ENGINE"`
	Locale    string  `yaml:"locale" env:"WAYTELL_LOCALE"`
	VoiceName string  `yaml:"voice" env:"WAYTELL_VOICE"`
	Rate      float64 `yaml:"rate" env:"WAYTELL_RATE"`
	Pitch     float64 `yaml:"pitch" env:"WAYTELL_PITCH"`

	QueueSize     int           `yaml:"queue_size" env:"WAYTELL_QUEUE_SIZE"`
	MessageMaxAge time.Duration `yaml:"message_max_age" env:"WAYTELL_MESSAGE_MAX_AGE"`
	DrainInterval time.Duration `yaml:"drain_interval" env:"WAYTELL_DRAIN_INTERVAL"`

	VoiceRetryInterval time.Duration `yaml:"voice_retry_interval" env:"WAYTELL_VOICE_RETRY_INTERVAL"`
	VoiceRetryAttempts int           `yaml:"voice_retry_attempts" env:"WAYTELL_VOICE_RETRY_ATTEMPTS"`

	AnnounceEvery time.Duration `yaml:"announce_every" env:"WAYTELL_ANNOUNCE_EVERY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:             "espeak",
		Locale:             "en-US",
		Rate:               1.0,
		Pitch:              1.0,
		QueueSize:          50,
		MessageMaxAge:      time.Minute,
		DrainInterval:      500 * time.Millisecond,
		VoiceRetryInterval: 250 * time.Millisecond,
		VoiceRetryAttempts: 10,
		AnnounceEvery:      5 * time.Second,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	scope := gap.NewScope(gap.User, "waytell")
	return scope.ConfigPath("waytell.yml")
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overrides, and validates the result. A
// missing default config file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolving config path: %w", err)
		}
		path = p
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("expanding config path: %w", err)
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	setDefaults(cfg)

	if err := viper.ReadInConfig(); err != nil {
		if explicit {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debug("no config file, using defaults", "path", path)
	}

	cfg = fromViper()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch re-loads the config whenever the file changes and hands the result
// to onChange. Invalid edits are logged and skipped.
func Watch(path string, onChange func(Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("config file changed", "file", filepath.Base(e.Name), "op", e.Op.String())
		cfg, err := Load(path)
		if err != nil {
			log.Error("ignoring invalid config change", "error", err)
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// Validate checks fields the narrator cannot check itself.
func (c Config) Validate() error {
	switch c.Engine {
	case "mock", "espeak":
	default:
		return fmt.Errorf("unknown engine %q: must be mock or espeak", c.Engine)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", c.Rate)
	}
	if c.Pitch < 0 {
		return fmt.Errorf("pitch must not be negative, got %g", c.Pitch)
	}
	return nil
}

func setDefaults(cfg Config) {
	viper.SetDefault("engine", cfg.Engine)
	viper.SetDefault("locale", cfg.Locale)
	viper.SetDefault("voice", cfg.VoiceName)
	viper.SetDefault("rate", cfg.Rate)
	viper.SetDefault("pitch", cfg.Pitch)
	viper.SetDefault("queue_size", cfg.QueueSize)
	viper.SetDefault("message_max_age", cfg.MessageMaxAge)
	viper.SetDefault("drain_interval", cfg.DrainInterval)
	viper.SetDefault("voice_retry_interval", cfg.VoiceRetryInterval)
	viper.SetDefault("voice_retry_attempts", cfg.VoiceRetryAttempts)
	viper.SetDefault("announce_every", cfg.AnnounceEvery)
}

func fromViper() Config {
	return Config{
		Engine:             viper.GetString("engine"),
		Locale:             viper.GetString("locale"),
		VoiceName:          viper.GetString("voice"),
		Rate:               viper.GetFloat64("rate"),
		Pitch:              viper.GetFloat64("pitch"),
		QueueSize:          viper.GetInt("queue_size"),
		MessageMaxAge:      viper.GetDuration("message_max_age"),
		DrainInterval:      viper.GetDuration("drain_interval"),
		VoiceRetryInterval: viper.GetDuration("voice_retry_interval"),
		VoiceRetryAttempts: viper.GetInt("voice_retry_attempts"),
		AnnounceEvery:      viper.GetDuration("announce_every"),
	}
}
