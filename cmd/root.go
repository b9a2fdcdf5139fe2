package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/timvw/muxpick/internal/config"
	"github.com/timvw/muxpick/internal/mux"
	telem "github.com/timvw/muxpick/internal/otel"
	"github.com/timvw/muxpick/internal/picker"
	"github.com/timvw/muxpick/internal/session"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagConfig       string
	flagShell        string
	flagTmux         string
	flagMaxRowHeight int
	flagWidth        int
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "muxpick",
	Short: "Interactive picker for tmux sessions",
	Long: `muxpick prints a table of running tmux sessions (dimensions, creation
time, attached users, foreground programs) and prompts for a session
name.

An existing name attaches (tab completes), a new name creates the
session first, and an empty answer drops into a plain shell. When the
action returns the table is rendered again; EOF or an interrupt at
the prompt exits with status 0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPicker(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("MUXPICK_CONFIG", ""), "config file (default: .muxpick.yaml, then XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagShell, "shell", "", "shell to spawn on an empty answer (default: $SHELL)")
	rootCmd.PersistentFlags().StringVar(&flagTmux, "tmux", "", "tmux binary to invoke (default: tmux on PATH)")
	rootCmd.PersistentFlags().IntVar(&flagMaxRowHeight, "max-row-height", 0, "cap on lines per table row (default: 4)")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "render width in columns (default: query the terminal)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "print cycle details on stderr")
}

// runPicker wires config, telemetry and the multiplexer into the
// interactive loop.
func runPicker(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if flagVerbose && cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}

	tel := setupTelemetry(ctx, cfg)
	if tel != nil {
		defer tel.Shutdown(ctx)
	}

	m, err := mux.Detect(cfg.Tmux)
	if err != nil {
		return err
	}

	p := &picker.Picker{
		Agg:          &session.Aggregator{Mux: m},
		Mux:          m,
		Shell:        cfg.Shell,
		TimeFormat:   cfg.TimeFormat,
		MaxRowHeight: cfg.MaxRowHeight,
		WidthFn:      widthFunc(),
		Verbose:      flagVerbose,
	}
	if tel != nil {
		p.Metrics = tel.Metrics
	}
	return p.Run(ctx)
}

// resolveConfig loads the configuration and applies flag overrides on top.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagShell != "" {
		cfg.Shell = flagShell
	}
	if flagTmux != "" {
		cfg.Tmux = flagTmux
	}
	if flagMaxRowHeight != 0 {
		if flagMaxRowHeight < 2 {
			fmt.Fprintf(os.Stderr, "warning: --max-row-height %d is below the minimum of 2, ignored\n", flagMaxRowHeight)
		} else {
			cfg.MaxRowHeight = flagMaxRowHeight
		}
	}
	return cfg, nil
}

// widthFunc returns a fixed width source when --width is given, nil to
// query the terminal on every render.
func widthFunc() func() int {
	if flagWidth > 0 {
		w := flagWidth
		return func() int { return w }
	}
	return nil
}

// setupTelemetry initializes OTEL export. Failures are reported but never
// block the picker.
func setupTelemetry(ctx context.Context, cfg *config.Config) *telem.Telemetry {
	telem.Version = Version
	tel, err := telem.Init(ctx, telem.Config{
		Endpoint: cfg.OTEL.Endpoint,
		Headers:  cfg.OTEL.Headers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
		return nil
	}
	return tel
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
