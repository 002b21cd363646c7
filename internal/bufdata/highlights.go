package bufdata

import (
	"sort"

	"github.com/pamfold/pamfold/internal/card"
)

// Highlight pins one span to a buffer line.
type Highlight struct {
	Line int
	Span card.Span
}

// Highlights stores the walker's spans for one buffer, flat and sorted by
// line. The walk emits lines in ascending order, so building is append-only.
type Highlights struct {
	hls []Highlight
}

func NewHighlights() *Highlights { return &Highlights{} }

// Len returns the stored span count.
func (h *Highlights) Len() int { return len(h.hls) }

// AddLineHighlights appends the spans computed for one line, satisfying the
// walker's sink interface.
func (h *Highlights) AddLineHighlights(nr int, spans []card.Span) {
	for _, s := range spans {
		h.hls = append(h.hls, Highlight{Line: nr, Span: s})
	}
}

// cut returns the index of the first highlight on or after line nr.
func (h *Highlights) cut(nr int) int {
	return sort.Search(len(h.hls), func(i int) bool { return h.hls[i].Line >= nr })
}

// LineRange returns the stored highlights of the interval [first, lastEx).
func (h *Highlights) LineRange(first, lastEx int) []Highlight {
	return h.hls[h.cut(first):h.cut(lastEx)]
}

// Splice replaces the highlights of the pre-edit window [first, lastEx)
// with sub's and renumbers every later line by delta. sub is already in
// post-edit coordinates.
func (h *Highlights) Splice(sub *Highlights, first, lastEx, delta int) {
	lo, hi := h.cut(first), h.cut(lastEx)
	tail := h.hls[hi:]
	if delta != 0 {
		for i := range tail {
			tail[i].Line += delta
		}
	}
	merged := make([]Highlight, 0, lo+len(sub.hls)+len(tail))
	merged = append(merged, h.hls[:lo]...)
	merged = append(merged, sub.hls...)
	merged = append(merged, tail...)
	h.hls = merged
}
