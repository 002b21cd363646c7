// Package scan walks keyword-tagged line sequences according to card
// grammar definitions. The cursor filters comment lines lazily and never
// backtracks; the walker consumes it row by row, emitting highlight spans
// and reporting each card's fold extent.
package scan

import (
	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/lines"
)

// SkipResult reports how far a skip consumed the input. SkipEnd is the
// number of the last line consumed; Next is the first unconsumed line, nil
// when the input ended.
type SkipResult struct {
	SkipEnd int
	Next    *lines.Line
}

// Cursor is a forward-only view over a line window that yields only
// non-comment lines. Once advanced past, a line is gone; walker operations
// share the position and interleave freely.
type Cursor struct {
	lines []lines.Line
	pos   int
}

// NewCursor starts a cursor at the beginning of the given window.
func NewCursor(ls []lines.Line) *Cursor {
	return &Cursor{lines: ls}
}

// Next yields the next non-comment line.
func (c *Cursor) Next() (lines.Line, bool) {
	for c.pos < len(c.lines) {
		l := c.lines[c.pos]
		c.pos++
		if l.Kw != card.KwComment {
			return l, true
		}
	}
	return lines.Line{}, false
}

// SkipToNextKeyword advances until a line that can start a card.
func (c *Cursor) SkipToNextKeyword() (lines.Line, bool) {
	for {
		l, ok := c.Next()
		if !ok {
			return lines.Line{}, false
		}
		if l.IsKeyword() {
			return l, true
		}
	}
}

// advance steps cur to the following non-comment line and records the line
// just left in prev. A false return means the input is exhausted; the
// caller then closes its region at prev with the partial result it holds.
func (c *Cursor) advance(prev *int, cur *lines.Line) bool {
	*prev = cur.Nr
	nl, ok := c.Next()
	if !ok {
		return false
	}
	*cur = nl
	return true
}

// SkipGes classifies skipline against the selection predicates and, when
// it belongs to the GES, consumes the selection body. The second return is
// false when skipline is no part of the selection at all ("not
// applicable"): the cursor has not moved and the caller proceeds with the
// line it already holds. A nil Next in an applicable result means the
// input ended inside the selection, which closes it silently.
func (c *Cursor) SkipGes(g card.GesType, skipline lines.Line) (SkipResult, bool) {
	previdx := skipline.Nr

	switch {
	case g.EndedBy(skipline.Text):
		// The line itself terminates the selection.
		nl, ok := c.Next()
		if !ok {
			return SkipResult{SkipEnd: previdx}, true
		}
		return SkipResult{SkipEnd: previdx, Next: &nl}, true

	case !g.Contains(skipline.Text):
		return SkipResult{}, false

	default:
		next, ok := c.Next()
		if !ok {
			return SkipResult{SkipEnd: skipline.Nr}, true
		}
		for g.Contains(next.Text) {
			if !c.advance(&previdx, &next) {
				return SkipResult{SkipEnd: previdx}, true
			}
		}
		if g.EndedBy(next.Text) {
			if !c.advance(&previdx, &next) {
				return SkipResult{SkipEnd: previdx}, true
			}
		}
		return SkipResult{SkipEnd: previdx, Next: &next}, true
	}
}
