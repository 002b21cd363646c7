package tracing

// Span names for the passes pamfold traces. Each parse or send pass
// over a buffer gets one span; incremental updates nest under the
// event-loop pass that triggered them.
const (
	// SpanParseFull covers a full parse of a buffer or file.
	SpanParseFull = "parse.full"

	// SpanParseUpdate covers an incremental update for one edit window.
	SpanParseUpdate = "parse.update"

	// SpanFoldsSend covers fold transmission to the editor.
	SpanFoldsSend = "folds.send"

	// SpanHighlightsSend covers highlight transmission for a region.
	SpanHighlightsSend = "highlights.send"

	// SpanWatchCycle covers one watcher-triggered re-parse of a file.
	SpanWatchCycle = "watch.cycle"
)

// Attribute keys used on pamfold spans.
const (
	AttrFile        = "pamfold.file"
	AttrSession     = "pamfold.session"
	AttrBuffer      = "pamfold.buffer"
	AttrChangedtick = "pamfold.changedtick"
	AttrFirstLine   = "pamfold.first"
	AttrLastLine    = "pamfold.last"
	AttrLineCount   = "pamfold.lines"
	AttrFoldCount   = "pamfold.folds"
	AttrHlCount     = "pamfold.highlights"
	AttrWindowCount = "pamfold.windows"
)

// Event names recorded on spans.
const (
	// EventSpliceFallback marks an incremental update that hit a fold or
	// highlight boundary and fell back to a full rebuild.
	EventSpliceFallback = "splice.fallback"

	// EventResync marks a full resync requested by the editor.
	EventResync = "resync"
)
