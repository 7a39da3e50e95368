// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"snaplink/internal/config"
	"snaplink/internal/history"
	"snaplink/internal/httputil"
	"snaplink/internal/logging"
	"snaplink/internal/provider"
	"snaplink/internal/relay"
	"snaplink/internal/resolve"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig    string
	flagDebug     bool
	flagNoHistory bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "snaplink",
	Short: "Resolve social and streaming links into downloadable media",
	Long: `Snaplink turns a link from Spotify, YouTube, TikTok, Instagram, Facebook or
Pinterest into direct media URLs. Run it as an HTTP service or use it from
the terminal to inspect and download assets.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/snaplink/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record resolves in the history database")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration, then installs the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagDebug {
		cfg.Debug = true
	}
	if flagNoHistory {
		cfg.History = false
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logging.Setup(level)
	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...any) {
	if cfg != nil && cfg.Debug {
		slog.Debug(fmt.Sprintf(format, args...))
	}
}

// newService wires adapters, the resolve deadline and, when enabled, the
// history store. The returned close function is never nil.
func newService() (*resolve.Service, func(), error) {
	client := httputil.NewClient(httputil.ClientOptions{
		Timeout: cfg.HTTPTimeout.Duration,
		Retries: cfg.Retries,
	})
	svc := &resolve.Service{
		Providers: provider.NewSet(cfg, client),
		Timeout:   cfg.ResolveTimeout.Duration,
	}

	if !cfg.History {
		return svc, func() {}, nil
	}
	path, err := cfg.ResolvedHistoryPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	debugf("history: %s", path)
	svc.Recorder = store
	return svc, func() { store.Close() }, nil
}

// newRelay builds the relay with its own long-lived client. Retries stay
// off so a failed stream is never silently restarted.
func newRelay() *relay.Relay {
	return &relay.Relay{
		Client: httputil.NewClient(httputil.ClientOptions{
			Timeout:               cfg.RelayTimeout.Duration,
			ResponseHeaderTimeout: cfg.Relay.HeaderTimeout.Duration,
		}),
		UserAgent: cfg.Relay.UserAgent,
	}
}
