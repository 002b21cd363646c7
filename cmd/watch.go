package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/diffsplit"
	"github.com/pamfold/pamfold/internal/tracing"
	"github.com/pamfold/pamfold/internal/watcher"
)

var watchFull bool

var watchCmd = &cobra.Command{
	Use:   "watch <deck>",
	Short: "Re-parse a deck on every save and report the folds",
	Long: `Follow a deck file on disk and re-parse it whenever it changes.

Each settled change is folded into the parse state incrementally: the
previous and the new content are diffed, and only the changed windows
run through the card walk, exactly as editor edits do. Use --full to
force a complete re-parse per change instead.

Example:
  pamfold watch crash.pc
  pamfold watch crash.pc --full`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchFull, "full", false,
		"re-parse the whole deck on every change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "config unusable, running on defaults: %v\n", cfgErr)
	}

	provider, err := tracing.NewProvider(traceConfig())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	path := args[0]
	lines, err := readDeckLines(path)
	if err != nil {
		return err
	}

	deck := bufdata.New()
	if err := deck.ParseStrings(lines); err != nil {
		return fmt.Errorf("parsing deck: %w", err)
	}
	fmt.Printf("%s: %d lines, %d folds\n", path, deck.LineCount(), len(deck.AllFolds()))

	w, err := watcher.New(watcher.Config{Path: path, Debounce: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for changes, Ctrl+C to stop")

	tracer := provider.Tracer()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped")
			return nil
		case <-changes:
			lines = refreshDeck(ctx, tracer, deck, path, lines)
		}
	}
}

// refreshDeck re-reads the deck and folds the change into the parse
// state. The returned lines are the diff base for the next change; on a
// failed read they stay the old ones, matching the untouched state.
func refreshDeck(ctx context.Context, tracer trace.Tracer, deck *bufdata.BufData, path string, old []string) []string {
	_, span := tracer.Start(ctx, tracing.SpanWatchCycle,
		trace.WithAttributes(attribute.String(tracing.AttrFile, path)))
	defer span.End()

	fresh, err := readDeckLines(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fmt.Fprintf(os.Stderr, "%s %v\n", stamp(), err)
		return old
	}

	if watchFull {
		if err := deck.ParseStrings(fresh); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			fmt.Fprintf(os.Stderr, "%s parsing deck: %v\n", stamp(), err)
			return fresh
		}
		report(span, deck, "all", stamp())
		return fresh
	}

	windows := diffsplit.Windows(old, fresh)
	span.SetAttributes(attribute.Int(tracing.AttrWindowCount, len(windows)))
	if len(windows) == 0 {
		fmt.Printf("%s unchanged\n", stamp())
		return fresh
	}

	for _, win := range windows {
		if _, err := deck.Update(win.First, win.Last, win.Lines); err != nil {
			// A straddling window falls back to one full pass.
			span.AddEvent(tracing.EventSpliceFallback)
			if perr := deck.ParseStrings(fresh); perr != nil {
				span.RecordError(perr)
				span.SetStatus(codes.Error, perr.Error())
				fmt.Fprintf(os.Stderr, "%s parsing deck: %v\n", stamp(), perr)
				return fresh
			}
			break
		}
	}
	report(span, deck, fmt.Sprintf("%d windows", len(windows)), stamp())
	return fresh
}

func report(span trace.Span, deck *bufdata.BufData, what, ts string) {
	folds := len(deck.AllFolds())
	span.SetAttributes(
		attribute.Int(tracing.AttrLineCount, deck.LineCount()),
		attribute.Int(tracing.AttrFoldCount, folds),
	)
	fmt.Printf("%s re-parsed %s: %d lines, %d folds\n", ts, what, deck.LineCount(), folds)
}

func stamp() string {
	return time.Now().Format("15:04:05")
}

// readDeckLines reads a deck as lines without the trailing newline,
// the shape ParseStrings and the diff windows work in. An empty file
// is an empty deck, not one empty line.
func readDeckLines(path string) ([]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	if len(buf) == 0 {
		return nil, nil
	}
	text := strings.TrimSuffix(string(buf), "\n")
	return strings.Split(text, "\n"), nil
}
