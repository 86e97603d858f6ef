// Package main provides the entry point for the waytell CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"waytell/guide"
	"waytell/internal/config"
	"waytell/speech"
	"waytell/speech/engines/espeak"
	"waytell/speech/engines/mock"
	"waytell/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineName string
	localeFlag string
	voiceFlag  string
	rateFlag   float64
	pitchFlag  float64
	debugFlag  bool

	rootCmd = &cobra.Command{
		Use:          "waytell [TEXT...]",
		Short:        "Narrate travel updates through a text-to-speech engine",
		Long:         "\nwaytell queues narration text by priority and speaks it one message\nat a time, surviving flaky engines and slow-loading voice lists.",
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		PersistentPreRun: func(*cobra.Command, []string) {
			if debugFlag {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: execute,
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive pipeline monitor against the mock engine",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}

	manCmd = &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			page, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				return fmt.Errorf("generating man page: %w", err)
			}
			_, err = fmt.Fprint(os.Stdout, page.Build(roff.NewDocument()))
			return err
		},
	}
)

func init() {
	rootCmd.Version = buildVersion()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: per-user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "verbose logging")
	rootCmd.Flags().StringVar(&engineName, "engine", "", "narration engine: mock or espeak")
	rootCmd.Flags().StringVar(&localeFlag, "locale", "", "preferred voice locale, e.g. pt-BR")
	rootCmd.Flags().StringVar(&voiceFlag, "voice", "", "preferred voice name")
	rootCmd.Flags().Float64Var(&rateFlag, "rate", 0, "speech rate multiplier")
	rootCmd.Flags().Float64Var(&pitchFlag, "pitch", 0, "pitch multiplier")

	rootCmd.AddCommand(demoCmd, configCmd, manCmd)
}

func buildVersion() string {
	if Version == "" {
		if CommitSHA != "" {
			return "(built from " + CommitSHA + ")"
		}
		return "(built from source)"
	}
	return Version
}

// loadConfig reads the config file and lets command-line flags win over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("engine") {
		cfg.Engine = engineName
	}
	if cmd.Flags().Changed("locale") {
		cfg.Locale = localeFlag
	}
	if cmd.Flags().Changed("voice") {
		cfg.VoiceName = voiceFlag
	}
	if cmd.Flags().Changed("rate") {
		cfg.Rate = rateFlag
	}
	if cmd.Flags().Changed("pitch") {
		cfg.Pitch = pitchFlag
	}
	return cfg, cfg.Validate()
}

func buildEngine(cfg config.Config) (speech.Engine, error) {
	switch cfg.Engine {
	case "mock":
		return mock.New(), nil
	case "espeak":
		return espeak.New()
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}

func buildNarrator(cfg config.Config) (*speech.Narrator, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	n, err := speech.New(engine, speech.Config{
		QueueSize:          cfg.QueueSize,
		MessageMaxAge:      cfg.MessageMaxAge,
		DrainInterval:      cfg.DrainInterval,
		VoiceRetryInterval: cfg.VoiceRetryInterval,
		VoiceRetryAttempts: cfg.VoiceRetryAttempts,
		Locale:             cfg.Locale,
		VoiceName:          cfg.VoiceName,
	})
	if err != nil {
		return nil, err
	}
	if err := n.SetRate(cfg.Rate); err != nil {
		return nil, err
	}
	if err := n.SetPitch(cfg.Pitch); err != nil {
		return nil, err
	}
	return n, nil
}

func execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	narrator, err := buildNarrator(cfg)
	if err != nil {
		return err
	}
	defer narrator.Destroy()

	for _, text := range args {
		if err := narrator.Speak(text, 0); err != nil {
			return err
		}
	}

	// Block until everything queued has been spoken.
	for narrator.Speaking() || !narrator.Queue().Empty() {
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("demo needs a terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Engine = "mock"

	narrator, err := buildNarrator(cfg)
	if err != nil {
		return err
	}
	defer narrator.Destroy()

	announcer, err := guide.NewAnnouncer(narrator, time.Second)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go feedDemoRoute(announcer, done)

	_, err = tea.NewProgram(ui.NewModel(narrator), tea.WithAltScreen()).Run()
	return err
}

// feedDemoRoute replays a small scripted journey through the announcer.
func feedDemoRoute(a *guide.Announcer, done <-chan struct{}) {
	route := []guide.Address{
		{Road: "Rua Direita", City: "Diamantina", Region: "Minas Gerais", Country: "Brazil"},
		{Road: "BR-367", City: "Diamantina", Region: "Minas Gerais", Country: "Brazil"},
		{Road: "BR-367", Suburb: "Extração", City: "Diamantina", Region: "Minas Gerais", Country: "Brazil"},
		{Road: "Estrada Real", City: "Milho Verde", Region: "Minas Gerais", Country: "Brazil"},
		{Road: "Rua do Carmo", City: "Serro", Region: "Minas Gerais", Country: "Brazil"},
	}
	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-time.After(2 * time.Second):
			if err := a.AddressChanged(route[i%len(route)]); err != nil {
				log.Error("demo announcement failed", "error", err)
			}
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
