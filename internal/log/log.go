// Package log provides structured logging for pamfold.
// Entries are written through zerolog to a log file and mirrored onto a
// pub/sub broker so the fold browser can tail them live. Logging is off
// until Init is called with a non-empty path; the plugin and CLI enable
// it via --debug or the PAMFOLD_DEBUG environment variable.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pamfold/pamfold/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a level name from the config file into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Category groups related log messages.
type Category string

const (
	CatParse  Category = "parse"  // Deck scanning and card walks
	CatFold   Category = "fold"   // Fold container updates
	CatHl     Category = "hl"     // Highlight container updates
	CatRPC    Category = "rpc"    // Neovim msgpack-rpc traffic
	CatWatch  Category = "watch"  // File watcher events
	CatUI     Category = "ui"     // Fold browser updates
	CatConfig Category = "config" // Configuration loading/saving
)

// Logger writes structured entries to a file and feeds the tail broker.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	zl       zerolog.Logger
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the global logger writing to path. An empty path
// yields a silent logger: processes spawned by the editor over stdio
// must never write to stderr, so logging stays off unless a log file
// is configured. Returns a cleanup function closing the log file and
// the tail broker.
func Init(path string, level Level) (func(), error) {
	var initErr error
	once.Do(func() {
		defaultLogger, initErr = newLogger(path, level)
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return func() {
		if defaultLogger != nil {
			if defaultLogger.broker != nil {
				defaultLogger.broker.Close()
			}
			if defaultLogger.file != nil {
				_ = defaultLogger.file.Close()
			}
		}
	}, nil
}

func newLogger(path string, level Level) (*Logger, error) {
	if path == "" {
		return &Logger{
			zl:       zerolog.Nop(),
			minLevel: level,
			broker:   pubsub.NewBroker[string](),
		}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is the user-configured debug log path
	if err != nil {
		return nil, err
	}

	broker := pubsub.NewBroker[string]()
	out := zerolog.ConsoleWriter{
		Out:        io.MultiWriter(f, entryWriter{broker: broker}),
		TimeFormat: "2006-01-02T15:04:05",
		NoColor:    true,
	}

	return &Logger{
		file:     f,
		zl:       zerolog.New(out).With().Timestamp().Logger(),
		enabled:  true,
		minLevel: level,
		broker:   broker,
	}, nil
}

// entryWriter mirrors each formatted line onto the broker so the fold
// browser can tail the log without re-reading the file.
type entryWriter struct {
	broker *pubsub.Broker[string]
}

func (w entryWriter) Write(p []byte) (int, error) {
	w.broker.Publish(pubsub.CreatedEvent, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	emit(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	emit(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	emit(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	emit(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error along with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	emit(LevelError, cat, msg, fields...)
}

func emit(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	ev := l.zl.WithLevel(level.zerolog()).Str("cat", string(cat))
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

// LogEvent is a pubsub event containing one formatted log line.
type LogEvent = pubsub.Event[string]

// LogListener tails the log over the broker.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a listener for log entries.
// Returns nil when logging has not been initialized.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker)
}
