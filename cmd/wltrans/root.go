package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wltrans/internal/config"
	"github.com/jmylchreest/wltrans/internal/display"
	"github.com/jmylchreest/wltrans/internal/history"
	"github.com/jmylchreest/wltrans/internal/input"
	"github.com/jmylchreest/wltrans/internal/probe"
	"github.com/jmylchreest/wltrans/internal/translate"
	"github.com/jmylchreest/wltrans/internal/wayland"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose     bool
		historyFile string
		configPath  string
		fromLang    string
		toLang      string
		srcText     string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wltrans",
	Short: "Translation popup for Wayland desktops",
	Long: `wltrans shows a translation popup next to the mouse pointer on
Wayland compositors that support the wlr-layer-shell protocol.

The text to translate comes from --src-text or, when absent, standard input:

  wl-paste --primary | wltrans -t de

Running wltrans without a subcommand opens the popup.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.fromLang != "" {
			cfg.Translate.From = globalOpts.fromLang
		}
		if globalOpts.toLang != "" {
			cfg.Translate.To = globalOpts.toLang
		}
		return nil
	},
	RunE: runPopup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			setupLogger()
		}
		logger.Error(failureMessage(err), "error", err)
		os.Exit(1)
	}
}

// failureMessage picks the top-level log message for a command error.
func failureMessage(err error) string {
	if probe.IsFatal(err) {
		return "display probe failed"
	}
	return "wltrans failed"
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.historyFile, "history-file", "",
		"Path to history file (default: ~/.local/share/wltrans/history.jsonl)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/wltrans/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.fromLang, "from-lang", "f", "",
		"Source language code (default from config: auto)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.toLang, "to-lang", "t", "",
		"Target language code (default from config: en)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.srcText, "src-text", "s", "",
		"Text to translate; standard input is read when omitted")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func runPopup(cmd *cobra.Command, args []string) error {
	text, err := input.Resolve(globalOpts.srcText, input.NewStdinSourceWithReader(cmd.InOrStdin()))
	if err != nil {
		return err
	}

	env, err := wayland.CollectEnvInfo(probeOptions())
	if err != nil {
		return fmt.Errorf("display probe: %w", err)
	}
	logger.Debug("environment captured",
		"monitor_width", env.MonitorWidth, "monitor_height", env.MonitorHeight,
		"pointer_x", env.PointerX, "pointer_y", env.PointerY)

	store, err := openHistory()
	if err != nil {
		logger.Warn("history disabled", "error", err)
	}
	var recorder display.Recorder
	if store != nil {
		defer store.Close()
		recorder = store
	}

	status := display.Run(display.AppOptions{
		Popup: display.PopupOptions{
			Config:     cfg.Popup,
			Env:        env,
			SourceText: text,
			Controller: display.ControllerOptions{
				Translator: newTranslator(),
				From:       cfg.Translate.From,
				To:         cfg.Translate.To,
				Timeout:    cfg.Translate.Timeout.Duration(),
				Recorder:   recorder,
			},
		},
		ThemesDir: config.ThemesDir(),
		Logger:    logger,
	})
	if status != 0 {
		return fmt.Errorf("popup exited with status %d", status)
	}
	return nil
}

func probeOptions() wayland.Options {
	return wayland.Options{
		Namespace:     cfg.Probe.Namespace,
		ExclusiveZone: cfg.Probe.ExclusiveZone,
		Logger:        logger,
	}
}

func newTranslator() *translate.GoogleTranslator {
	return translate.NewGoogleTranslator(translate.Options{
		Endpoint:  cfg.Translate.Endpoint,
		UserAgent: cfg.Translate.UserAgent,
		Timeout:   cfg.Translate.Timeout.Duration(),
		Logger:    logger,
	})
}

// openHistory opens the history store, or returns nil when history is
// disabled in config.
func openHistory() (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path := historyPath()
	if path == "" {
		return nil, fmt.Errorf("unable to determine history path")
	}
	return history.Open(path, cfg.History.MaxEntries, logger)
}

func historyPath() string {
	if globalOpts.historyFile != "" {
		return globalOpts.historyFile
	}
	return config.HistoryPath()
}
