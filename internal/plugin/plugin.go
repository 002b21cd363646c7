// Package plugin is the editor boundary: a msgpack-RPC client speaking
// the buffer-event protocol over stdio. Incoming notifications are
// converted to events and drained by a single loop goroutine that owns
// the parse state, so no locking is needed anywhere in the core.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/neovim/go-client/nvim"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/log"
	"github.com/pamfold/pamfold/internal/tracing"
)

// eventBuffer sizes the handler-to-loop channel. Editors burst events
// during large pastes; the loop catches up without stalling the RPC
// reader.
const eventBuffer = 256

const updateFoldsLua = "require('pamfold').update_folds(...)"

// Options configures a plugin session.
type Options struct {
	// File preloads a deck from disk. The initial buffer transmission is
	// skipped; the buffer must hold the same content.
	File string

	// Tracer records parse and send spans. Nil means no tracing.
	Tracer trace.Tracer
}

// Plugin holds one editor session: the RPC client, the parse state and
// the event channel between them.
type Plugin struct {
	client  *nvim.Nvim
	deck    *bufdata.BufData
	tracer  trace.Tracer
	session string
	file    string

	events chan any
	done   chan struct{}
	once   sync.Once

	buf  nvim.Buffer
	nsID int
}

// New creates a plugin session around an existing client.
func New(client *nvim.Nvim, opts Options) *Plugin {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Plugin{
		client:  client,
		deck:    bufdata.New(),
		tracer:  tracer,
		session: uuid.NewString(),
		file:    opts.File,
		events:  make(chan any, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Serve connects to the editor over stdio and runs until the editor
// goes away, the user quits the plugin or ctx is cancelled.
func Serve(ctx context.Context, opts Options) error {
	client, err := nvim.New(os.Stdin, os.Stdout, os.Stdout, rpcLogf)
	if err != nil {
		return fmt.Errorf("creating stdio client: %w", err)
	}

	p := New(client, opts)
	if err := p.register(); err != nil {
		return err
	}

	// The serve goroutine must be reading before any request can
	// round-trip, so it starts ahead of the attach handshake.
	serveErr := make(chan error, 1)
	go func() { serveErr <- client.Serve() }()

	if err := p.start(ctx); err != nil {
		p.shutdown()
		_ = client.Close()
		<-serveErr
		return err
	}

	loopErr := make(chan error, 1)
	go func() { loopErr <- p.loop(ctx) }()

	select {
	case err := <-loopErr:
		p.shutdown()
		_ = client.Close()
		<-serveErr
		return err
	case err := <-serveErr:
		// The editor closed the channel; the loop has nothing left to do.
		p.shutdown()
		if lerr := <-loopErr; lerr != nil {
			return lerr
		}
		return err
	}
}

// start performs the session handshake: announce, create the highlight
// namespace, optionally preload the deck file, then attach to the
// current buffer.
func (p *Plugin) start(ctx context.Context) error {
	if err := p.client.Subscribe("Quit"); err != nil {
		return fmt.Errorf("subscribing to Quit: %w", err)
	}
	if err := p.client.Command(`echom 'pamfold connected'`); err != nil {
		return fmt.Errorf("announcing to the editor: %w", err)
	}

	nsID, err := p.client.CreateNamespace("pamfold")
	if err != nil {
		return fmt.Errorf("creating highlight namespace: %w", err)
	}
	p.nsID = nsID

	buf, err := p.client.CurrentBuffer()
	if err != nil {
		return fmt.Errorf("querying current buffer: %w", err)
	}
	p.buf = buf

	sendBuffer := true
	if p.file != "" {
		if err := p.parseFile(ctx); err != nil {
			return err
		}
		if err := p.sendFolds(ctx); err != nil {
			return err
		}
		sendBuffer = false
	}

	attached, err := p.client.AttachBuffer(buf, sendBuffer, map[string]any{})
	if err != nil {
		return fmt.Errorf("attaching to buffer %d: %w", int(buf), err)
	}
	if !attached {
		return errors.New("could not enable buffer updates")
	}

	log.Info(log.CatRPC, "Attached to buffer",
		"session", p.session, "buffer", int(buf), "preloaded", p.file != "")
	return nil
}

// parseFile loads the deck from disk instead of waiting for the initial
// buffer transmission.
func (p *Plugin) parseFile(ctx context.Context) error {
	_, span := p.tracer.Start(ctx, tracing.SpanParseFull, trace.WithAttributes(
		attribute.String(tracing.AttrSession, p.session),
		attribute.String(tracing.AttrFile, p.file),
	))
	defer span.End()

	content, err := os.ReadFile(p.file)
	if err != nil {
		return spanFail(span, fmt.Errorf("reading %s: %w", p.file, err))
	}
	if err := p.deck.ParseBytes(content); err != nil {
		return spanFail(span, fmt.Errorf("parsing %s: %w", p.file, err))
	}

	span.SetAttributes(attribute.Int(tracing.AttrLineCount, p.deck.LineCount()))
	log.Info(log.CatParse, "Parsed deck file",
		"session", p.session, "file", p.file, "lines", p.deck.LineCount())
	return nil
}

// loop drains events in order. One event may require several
// transmissions; they happen before the next event is taken so the
// editor never sees folds and highlights from different states.
func (p *Plugin) loop(ctx context.Context) error {
	log.Info(log.CatRPC, "Event loop running", "session", p.session)
	for {
		select {
		case <-ctx.Done():
			log.Info(log.CatRPC, "Context done, quitting", "session", p.session)
			return nil
		case <-p.done:
			return nil
		case ev := <-p.events:
			sends, quit, err := p.apply(ctx, ev)
			if err != nil {
				log.ErrorErr(log.CatRPC, "Event handling failed", err, "session", p.session)
				return err
			}
			if err := p.transmit(ctx, sends); err != nil {
				log.ErrorErr(log.CatRPC, "Transmission failed", err, "session", p.session)
				return err
			}
			if quit {
				log.Info(log.CatRPC, "Quitting", "session", p.session)
				return nil
			}
		}
	}
}

// sendKind enumerates the transmissions an event can require.
type sendKind int

const (
	sendFolds sendKind = iota
	sendHighlights
)

// send is one pending transmission produced by apply.
type send struct {
	kind  sendKind
	reg   bufdata.Region
	clear bool
}

// apply runs one event against the parse state and returns the
// transmissions it requires. quit reports that the loop should end.
func (p *Plugin) apply(ctx context.Context, ev any) (sends []send, quit bool, err error) {
	switch e := ev.(type) {
	case LinesEvent:
		if e.Changedtick == 0 {
			return nil, false, nil
		}
		sends, err = p.applyLines(ctx, e)
		return sends, false, err
	case ChangedTickEvent:
		// A tick without text changes nothing.
		return nil, false, nil
	case RefreshFolds:
		return []send{{kind: sendFolds}}, false, nil
	case HighlightRegion:
		reg := p.deck.CardRegion(int(e.First), int(e.Last))
		return []send{{kind: sendHighlights, reg: reg}}, false, nil
	case DetachEvent:
		log.Info(log.CatRPC, "Buffer detached", "session", p.session, "buffer", int(e.Buf))
		return nil, true, nil
	case Quit:
		return nil, true, nil
	default:
		log.Warn(log.CatRPC, "Unexpected event", "session", p.session, "event", fmt.Sprintf("%T", ev))
		return nil, false, nil
	}
}

// applyLines handles one buffer change. A lastline of -1 replaces the
// whole state; anything else runs an incremental update. An update that
// trips a fold or splice invariant demotes to a full rebuild of the
// already-updated lines.
func (p *Plugin) applyLines(ctx context.Context, e LinesEvent) ([]send, error) {
	if e.Last == -1 {
		_, span := p.tracer.Start(ctx, tracing.SpanParseFull, trace.WithAttributes(
			attribute.String(tracing.AttrSession, p.session),
			attribute.Int64(tracing.AttrBuffer, int64(e.Buf)),
		))
		defer span.End()
		span.AddEvent(tracing.EventResync)

		if err := p.deck.ParseStrings(e.Linedata); err != nil {
			return nil, spanFail(span, fmt.Errorf("parsing full buffer: %w", err))
		}
		span.SetAttributes(attribute.Int(tracing.AttrLineCount, p.deck.LineCount()))
		log.Debug(log.CatParse, "Reparsed buffer",
			"session", p.session, "lines", p.deck.LineCount())
		return []send{{kind: sendFolds}}, nil
	}

	if e.First < 0 || e.Last < 0 {
		log.Warn(log.CatRPC, "Lines event with negative range",
			"session", p.session, "first", e.First, "last", e.Last)
		return nil, nil
	}

	_, span := p.tracer.Start(ctx, tracing.SpanParseUpdate, trace.WithAttributes(
		attribute.String(tracing.AttrSession, p.session),
		attribute.Int64(tracing.AttrFirstLine, e.First),
		attribute.Int64(tracing.AttrLastLine, e.Last),
		attribute.Int(tracing.AttrLineCount, len(e.Linedata)),
	))
	defer span.End()

	reg, err := p.deck.Update(int(e.First), int(e.Last), e.Linedata)
	if err != nil {
		if !errors.Is(err, bufdata.ErrFoldOrder) && !errors.Is(err, bufdata.ErrSpliceBoundary) {
			return nil, spanFail(span, fmt.Errorf("updating lines [%d, %d): %w", e.First, e.Last, err))
		}

		span.AddEvent(tracing.EventSpliceFallback)
		log.Debug(log.CatParse, "Splice fallback",
			"session", p.session, "first", e.First, "last", e.Last, "error", err.Error())

		if rerr := p.deck.Reparse(); rerr != nil {
			return nil, spanFail(span, fmt.Errorf("rebuilding after failed splice: %w", rerr))
		}
		full := bufdata.Region{First: 0, Last: p.deck.LineCount()}
		return []send{
			{kind: sendFolds},
			{kind: sendHighlights, reg: full, clear: true},
		}, nil
	}

	log.Debug(log.CatParse, "Updated lines",
		"session", p.session, "first", e.First, "last", e.Last, "replacement", len(e.Linedata))
	return []send{{kind: sendHighlights, reg: reg, clear: true}}, nil
}

// transmit performs the pending transmissions in order.
func (p *Plugin) transmit(ctx context.Context, sends []send) error {
	for _, s := range sends {
		var err error
		switch s.kind {
		case sendFolds:
			err = p.sendFolds(ctx)
		case sendHighlights:
			err = p.sendHighlights(ctx, s.reg, s.clear)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// foldArg is the wire shape of one fold for the companion Lua module.
type foldArg struct {
	Start int    `msgpack:"start"`
	End   int    `msgpack:"end"`
	Text  string `msgpack:"text"`
}

func foldArgs(entries []bufdata.FoldEntry) []foldArg {
	args := make([]foldArg, len(entries))
	for i, e := range entries {
		args[i] = foldArg{Start: e.Start, End: e.End, Text: e.Text}
	}
	return args
}

// sendFolds pushes the complete fold table to the Lua side, which
// recreates all folds in one go.
func (p *Plugin) sendFolds(ctx context.Context) error {
	_, span := p.tracer.Start(ctx, tracing.SpanFoldsSend, trace.WithAttributes(
		attribute.String(tracing.AttrSession, p.session),
	))
	defer span.End()

	entries := p.deck.AllFolds()
	if err := p.client.ExecLua(updateFoldsLua, nil, foldArgs(entries)); err != nil {
		return spanFail(span, fmt.Errorf("sending folds: %w", err))
	}

	span.SetAttributes(attribute.Int(tracing.AttrFoldCount, len(entries)))
	log.Debug(log.CatFold, "Sent folds", "session", p.session, "count", len(entries))
	return nil
}

// sendHighlights pushes the spans of one region in a single batch,
// optionally clearing the region's namespace first.
func (p *Plugin) sendHighlights(ctx context.Context, reg bufdata.Region, clear bool) error {
	_, span := p.tracer.Start(ctx, tracing.SpanHighlightsSend, trace.WithAttributes(
		attribute.String(tracing.AttrSession, p.session),
		attribute.Int(tracing.AttrFirstLine, reg.First),
		attribute.Int(tracing.AttrLastLine, reg.Last),
	))
	defer span.End()

	hls := p.deck.HighlightsIn(reg.First, reg.Last)

	b := p.client.NewBatch()
	if clear {
		b.ClearBufferNamespace(p.buf, p.nsID, reg.First, reg.Last)
	}
	ids := make([]int, len(hls))
	for i, h := range hls {
		b.AddBufferHighlight(p.buf, p.nsID, h.Span.Group.String(),
			h.Line, h.Span.Start, h.Span.End, &ids[i])
	}
	if err := b.Execute(); err != nil {
		return spanFail(span, fmt.Errorf("sending highlights for [%d, %d): %w", reg.First, reg.Last, err))
	}

	span.SetAttributes(attribute.Int(tracing.AttrHlCount, len(hls)))
	log.Debug(log.CatHl, "Sent highlights",
		"session", p.session, "first", reg.First, "last", reg.Last, "count", len(hls))
	return nil
}

// shutdown signals both goroutines to stop. Safe to call repeatedly.
func (p *Plugin) shutdown() {
	p.once.Do(func() { close(p.done) })
}

// spanFail records err on span and passes it through.
func spanFail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// rpcLogf routes the client's internal complaints into the session log.
// The editor surfaces anything written to stderr as an error message.
func rpcLogf(format string, args ...any) {
	log.Debug(log.CatRPC, fmt.Sprintf(format, args...))
}
