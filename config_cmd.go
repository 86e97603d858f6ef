package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"waytell/internal/config"
)

const defaultConfig = `# narration engine: mock or espeak
engine: "espeak"
# preferred voice locale
locale: "en-US"
# preferred voice name (fuzzy-matched against the engine's voices)
# voice: "pt-br"
# speech rate multiplier, clamped to [0.1, 10.0]
rate: 1.0
# pitch multiplier, clamped to [0.0, 2.0]
pitch: 1.0

# queued messages kept at most (1-1000)
queue_size: 50
# messages older than this are dropped (1s-5m)
message_max_age: 1m
# cadence of the drain loop (10ms-5s)
drain_interval: 500ms

# voice retry loop
voice_retry_interval: 250ms
voice_retry_attempts: 10

# minimum spacing between address announcements
announce_every: 5s
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or show the config file",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		path, err := ensureConfigFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

// ensureConfigFile writes the default config when none exists yet and
// returns the file's path.
func ensureConfigFile() (string, error) {
	path := configFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return "", fmt.Errorf("resolving config path: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("unable to stat config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
