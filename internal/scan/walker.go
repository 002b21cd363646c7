package scan

import (
	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/lines"
)

// HighlightSink receives the spans the walker computes, keyed by line
// number. The fold engine passes its highlight container here.
type HighlightSink interface {
	AddLineHighlights(nr int, spans []card.Span)
}

// DiscardHighlights drops every span, for callers that only need fold
// extents.
type DiscardHighlights struct{}

func (DiscardHighlights) AddLineHighlights(int, []card.Span) {}

// condAt fetches a condition by position. Out-of-range references yield
// the absent result, degrading Optional to skipped and Repeat to zero.
func condAt(conds []card.CondResult, i int) card.CondResult {
	if i < 0 || i >= len(conds) {
		return card.CondResult{}
	}
	return conds[i]
}

// SkipFold consumes exactly one fold's worth of input starting at a
// keyword line: a single card instance when the card owns its fold, a
// whole run of consecutive instances otherwise.
func (c *Cursor) SkipFold(skipline lines.Line, cd *card.Card, hls HighlightSink) SkipResult {
	if cd.OwnFold {
		return c.SkipCard(skipline, cd, hls)
	}
	return c.SkipCardGather(skipline, cd, hls)
}

// SkipCardGather merges consecutive instances of the same card into one
// extent. Comment lines between instances stay inside the extent; any
// other line ends the run.
func (c *Cursor) SkipCardGather(skipline lines.Line, cd *card.Card, hls HighlightSink) SkipResult {
	res := c.SkipCard(skipline, cd, hls)
	for res.Next != nil && res.Next.Kw == cd.Kw {
		res = c.SkipCard(*res.Next, cd, hls)
	}
	return res
}

// SkipCard walks one card instance. skipline is the already-consumed
// keyword line; the rows decide how much further input belongs to the
// card. Truncation is never an error: at end of input, or when a new
// keyword line appears mid-card, the instance simply ends at the last
// consumed line.
func (c *Cursor) SkipCard(skipline lines.Line, cd *card.Card, hls HighlightSink) SkipResult {
	var conds []card.CondResult

	first := cd.Rows[0]
	if p, ok := first.(card.Provides); ok {
		conds = append(conds, p.Cond.Evaluate(skipline.Text))
	}
	hls.AddLineHighlights(skipline.Nr, first.Spans(skipline.Text))

	previdx := skipline.Nr
	next, ok := c.Next()
	if !ok {
		return SkipResult{SkipEnd: previdx}
	}

	for _, row := range cd.Rows[1:] {
		if next.IsKeyword() {
			break
		}

		switch r := row.(type) {
		case card.Cells:
			hls.AddLineHighlights(next.Nr, r.Spans(next.Text))
			if !c.advance(&previdx, &next) {
				return SkipResult{SkipEnd: previdx}
			}

		case card.Provides:
			conds = append(conds, r.Cond.Evaluate(next.Text))
			if !c.advance(&previdx, &next) {
				return SkipResult{SkipEnd: previdx}
			}

		case card.Optional:
			if !condAt(conds, r.Index).True() {
				continue
			}
			if !c.advance(&previdx, &next) {
				return SkipResult{SkipEnd: previdx}
			}

		case card.Repeat:
			n, has := condAt(conds, r.Index).Count()
			if !has || n <= 0 {
				continue
			}
			for i := 0; i < n && !next.IsKeyword(); i++ {
				if !c.advance(&previdx, &next) {
					return SkipResult{SkipEnd: previdx}
				}
			}

		case card.Block:
			for !next.IsKeyword() && !r.Ends(next.Text) {
				if !c.advance(&previdx, &next) {
					return SkipResult{SkipEnd: previdx}
				}
			}
			if !next.IsKeyword() {
				// Step past the terminator line.
				if !c.advance(&previdx, &next) {
					return SkipResult{SkipEnd: previdx}
				}
			}

		case card.OptionalBlock:
			if !r.StartsBlock(next.Text) {
				continue
			}
			for !next.IsKeyword() && !r.EndsBlock(next.Text) {
				if !c.advance(&previdx, &next) {
					return SkipResult{SkipEnd: previdx}
				}
			}
			if !next.IsKeyword() {
				if !c.advance(&previdx, &next) {
					return SkipResult{SkipEnd: previdx}
				}
			}

		case card.Ges:
			res, applicable := c.SkipGes(r.GesType, next)
			if !applicable {
				continue
			}
			if res.Next == nil {
				return res
			}
			previdx = res.SkipEnd
			next = *res.Next
		}
	}

	return SkipResult{SkipEnd: previdx, Next: &next}
}
