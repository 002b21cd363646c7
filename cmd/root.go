package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pamfold/pamfold/internal/config"
	"github.com/pamfold/pamfold/internal/log"
	"github.com/pamfold/pamfold/internal/plugin"
	"github.com/pamfold/pamfold/internal/tracing"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgErr  error

	debugFlag bool
	fileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "pamfold",
	Short: "Fold and highlight provider for PAM-CRASH decks",
	Long: `Serve folds and highlights for a PAM-CRASH deck over stdin/stdout.

Launched by the editor as a msgpack-rpc child process. pamfold parses the
deck into cards, hands the editor one fold per card plus family folds for
runs of related cards, and keeps both current across edits by re-parsing
only the lines an edit touched.

Example:
  " from Neovim
  let chan = jobstart(['pamfold', '-f', expand('%')], {'rpc': v:true})`,
	Version: version,
	RunE:    runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/pamfold/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "",
		"deck file to parse before attaching")
}

// initConfig loads configuration before any command runs. Errors are
// stashed rather than returned: the stdio plugin must come up even with
// a broken config file, so each command reports cfgErr on its own terms.
func initConfig() {
	cfg, cfgErr = config.Load(cfgFile)
	if cfgErr == nil {
		cfgErr = cfg.Validate()
	}
	if cfgErr != nil {
		cfg = config.Defaults()
	}
}

// initLogging opens the debug log. Debug mode comes from the --debug flag
// or the PAMFOLD_DEBUG environment variable and forces a log file even
// when the config leaves logging off.
func initLogging() (func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.LevelInfo
	}
	path := cfg.Log.File

	if debugFlag || os.Getenv("PAMFOLD_DEBUG") != "" {
		level = log.LevelDebug
		if path == "" {
			path = os.Getenv("PAMFOLD_LOG")
		}
		if path == "" {
			path = "pamfold.log"
		}
	}

	cleanup, err := log.Init(path, level)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	return cleanup, nil
}

// traceConfig maps the trace section of the config file onto the tracing
// package.
func traceConfig() tracing.Config {
	return tracing.Config{
		Enabled:      cfg.Trace.Enabled,
		Exporter:     cfg.Trace.Exporter,
		File:         cfg.Trace.File,
		OTLPEndpoint: cfg.Trace.OTLPEndpoint,
		SampleRate:   cfg.Trace.SampleRate,
		ServiceName:  cfg.Trace.ServiceName,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if cfgErr != nil {
		log.Warn(log.CatConfig, "Config unusable, running on defaults", "error", cfgErr.Error())
	}

	provider, err := tracing.NewProvider(traceConfig())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return plugin.Serve(ctx, plugin.Options{
		File:   fileFlag,
		Tracer: provider.Tracer(),
	})
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
