// Package config provides configuration types, defaults and persistence
// for pamfold.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pamfold/pamfold/internal/log"
)

// localConfigPath is the project-local config location, checked before
// the user config directory.
const localConfigPath = ".pamfold/config.yaml"

// Config holds all configuration options for pamfold.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Watch WatchConfig `mapstructure:"watch"`
	Trace TraceConfig `mapstructure:"trace"`
	UI    UIConfig    `mapstructure:"ui"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	// File is the log file path. Logging stays off while unset: the
	// plugin runs as a child of the editor and must not write to stderr.
	File string `mapstructure:"file"`

	// Level is the minimum level written: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
}

// WatchConfig controls the deck file watcher.
type WatchConfig struct {
	// Debounce is the quiet period after the last change event before
	// the deck is re-parsed.
	Debounce time.Duration `mapstructure:"debounce"`
}

// TraceConfig holds tracing configuration for parse and update passes.
type TraceConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// File is the output file for the "file" exporter.
	// Empty means ~/.config/pamfold/traces/traces.jsonl, derived on load.
	File string `mapstructure:"file"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName identifies this process in traces.
	ServiceName string `mapstructure:"service_name"`
}

// UIConfig holds fold browser options.
type UIConfig struct {
	// ContextLines is the number of lines shown around a fold in the
	// browser preview.
	ContextLines int `mapstructure:"context_lines"`
}

// Defaults returns a Config with the default values.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			File:  "",
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Trace: TraceConfig{
			Enabled:      false,
			Exporter:     "file",
			File:         "", // Derived from the home directory on load
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "pamfold",
		},
		UI: UIConfig{
			ContextLines: 3,
		},
	}
}

// DefaultTraceFile returns the default path for trace file export.
// Returns an empty string if the home directory is unavailable.
func DefaultTraceFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pamfold", "traces", "traces.jsonl")
}

// UserConfigPath returns the per-user config file location.
// Returns an empty string if the home directory is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pamfold", "config.yaml")
}

// Load reads the configuration. When path is non-empty it must name an
// existing config file. Otherwise the lookup order is
// ./.pamfold/config.yaml, then ~/.config/pamfold/config.yaml; when
// neither exists, a commented skeleton is written to the user location
// so the keys are discoverable, and defaults apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	default:
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
			break
		}
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "pamfold"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
			// First run: write the skeleton, then carry on with defaults
			// even if that fails (read-only home, for example).
			if userPath := UserConfigPath(); userPath != "" {
				if writeErr := WriteDefault(userPath); writeErr == nil {
					v.SetConfigFile(userPath)
					_ = v.ReadInConfig()
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Trace.File == "" {
		cfg.Trace.File = DefaultTraceFile()
	}

	log.Debug(log.CatConfig, "Loaded config",
		"file", v.ConfigFileUsed(), "level", cfg.Log.Level)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.exporter", d.Trace.Exporter)
	v.SetDefault("trace.file", d.Trace.File)
	v.SetDefault("trace.otlp_endpoint", d.Trace.OTLPEndpoint)
	v.SetDefault("trace.sample_rate", d.Trace.SampleRate)
	v.SetDefault("trace.service_name", d.Trace.ServiceName)
	v.SetDefault("ui.context_lines", d.UI.ContextLines)
}

// Validate checks the configuration for errors.
// Empty values fall back to defaults and are valid.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}

	if c.Trace.SampleRate < 0.0 || c.Trace.SampleRate > 1.0 {
		return fmt.Errorf("trace.sample_rate must be between 0.0 and 1.0, got %v", c.Trace.SampleRate)
	}

	if c.Trace.Exporter != "" {
		switch c.Trace.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("trace.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", c.Trace.Exporter)
		}
	}

	if c.Trace.Enabled {
		if c.Trace.Exporter == "file" && c.Trace.File == "" {
			return fmt.Errorf("trace.file is required when exporter is \"file\"")
		}
		if c.Trace.Exporter == "otlp" && c.Trace.OTLPEndpoint == "" {
			return fmt.Errorf("trace.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	if c.UI.ContextLines < 0 {
		return fmt.Errorf("ui.context_lines must not be negative, got %d", c.UI.ContextLines)
	}

	return nil
}
