// Package bufdata ties one buffer's lines, folds and highlights together.
// It runs the grammar walk over the whole buffer on the initial parse and
// over a widened window on every incremental edit, splicing the window's
// fresh results into the live containers.
package bufdata

import (
	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/carddef"
	"github.com/pamfold/pamfold/internal/lines"
	"github.com/pamfold/pamfold/internal/scan"
)

// Region is an end-exclusive interval of 0-based buffer lines.
type Region struct {
	First int
	Last  int
}

// BufData holds the parse state of one buffer.
type BufData struct {
	lines *lines.Lines
	folds *Folds
	hls   *Highlights
}

func New() *BufData {
	return &BufData{lines: &lines.Lines{}, folds: NewFolds(), hls: NewHighlights()}
}

// ParseBytes rebuilds the whole state from a raw file buffer. The buffer
// must outlive the BufData; line text is borrowed, not copied.
func (d *BufData) ParseBytes(buf []byte) error {
	return d.regenerate(lines.FromBytes(buf))
}

// ParseStrings rebuilds the whole state from editor-delivered line data.
func (d *BufData) ParseStrings(ls []string) error {
	return d.regenerate(lines.FromStrings(ls))
}

func (d *BufData) regenerate(ls *lines.Lines) error {
	folds, hls := NewFolds(), NewHighlights()
	if err := parseWindow(ls.All(), folds, hls); err != nil {
		return err
	}
	d.lines, d.folds, d.hls = ls, folds, hls
	d.folds.RecreateLevel2()
	return nil
}

// Update applies one editor edit: the line range [firstline, lastline) was
// replaced by linedata. The affected window is widened outward to whole-card
// boundaries, reparsed into fresh containers and spliced into the live ones.
// The returned region is the post-edit window whose highlights changed, for
// the caller to clear and resend. On error the fold and highlight state is
// stale and the caller must rebuild from the full buffer.
func (d *BufData) Update(firstline, lastline int, linedata []string) (Region, error) {
	delta := d.lines.Update(firstline, lastline, linedata)

	// Lines below firstline are untouched, so pre- and post-edit
	// coordinates agree for first.
	first := d.lines.FirstBefore(firstline)
	if fo, ok := d.folds.Containing(first); ok && fo.Start < first {
		first = fo.Start
	}
	// A gathered run just above the window can absorb the window's first
	// card; pull the whole run in so the re-walk sees the merge.
	if fo, ok := d.folds.Preceding(first); ok && gatherKeyword(fo.Kw) &&
		first < d.lines.Len() && d.lines.At(first).Kw == fo.Kw &&
		d.commentsOnly(fo.End+1, first) {
		first = fo.Start
	}

	lastPost := d.lines.FirstAfter(lastline + delta)
	lastPre := lastPost - delta
	if fo, ok := d.folds.Containing(lastPre); ok && fo.Start < lastPre {
		// lastPre cuts a gathered run; push it past the whole fold.
		lastPre = fo.End + 1
		lastPost = lastPre + delta
	}
	// Same at the bottom seam: the window's last card can reach into the
	// gathered run that follows.
	if fo, ok := d.folds.FollowingAt(lastPre); ok && gatherKeyword(fo.Kw) &&
		d.commentsOnly(lastPost, fo.Start+delta) {
		lastPre = fo.End + 1
		lastPost = lastPre + delta
	}

	sub, subHls := NewFolds(), NewHighlights()
	if err := parseWindow(d.lines.Window(first, lastPost), sub, subHls); err != nil {
		return Region{}, err
	}
	if err := d.folds.Splice(sub, first, lastPre, delta); err != nil {
		return Region{}, err
	}
	d.hls.Splice(subHls, first, lastPre, delta)
	d.folds.RecreateLevel2()

	return Region{First: first, Last: lastPost}, nil
}

// Reparse rebuilds folds and highlights from the buffer's current lines.
// It is the recovery path after a failed splice, whose error leaves the
// containers stale while the lines are already up to date.
func (d *BufData) Reparse() error {
	return d.regenerate(d.lines)
}

// AllFolds packs level-1 then level-2 folds into transmission shape.
func (d *BufData) AllFolds() []FoldEntry { return d.folds.Entries() }

// HighlightsIn returns the stored highlights of [first, lastEx).
func (d *BufData) HighlightsIn(first, lastEx int) []Highlight {
	return d.hls.LineRange(first, lastEx)
}

// CardRegion widens the inclusive line interval [first, last] to whole-card
// boundaries and returns it end-exclusive.
func (d *BufData) CardRegion(first, last int) Region {
	fl := d.lines.FirstBefore(first)
	ll := d.lines.FirstAfter(last)
	if ll == last {
		// Keep the requested last line inside even when it starts a card.
		ll++
	}
	return Region{First: fl, Last: ll}
}

// LineCount returns the number of buffer lines.
func (d *BufData) LineCount() int { return d.lines.Len() }

// LineText returns the text of line nr. Callers index within bounds.
func (d *BufData) LineText(nr int) []byte { return d.lines.At(nr).Text }

// gatherKeyword reports whether kw's card merges consecutive instances.
func gatherKeyword(kw card.Keyword) bool {
	cd := carddef.Lookup(kw)
	return cd != nil && !cd.OwnFold
}

// commentsOnly reports whether every post-edit line of [first, lastEx) is a
// comment.
func (d *BufData) commentsOnly(first, lastEx int) bool {
	for i := first; i < lastEx; i++ {
		if d.lines.At(i).Kw != card.KwComment {
			return false
		}
	}
	return true
}

// parseWindow runs the full walk loop over one line window, filling the
// given containers. Window line numbers are absolute, so the results drop
// into place without shifting.
func parseWindow(win []lines.Line, folds *Folds, hls *Highlights) error {
	c := scan.NewCursor(win)
	start, ok := c.SkipToNextKeyword()
	for ok {
		cd := carddef.Lookup(start.Kw)
		if cd == nil {
			start, ok = c.SkipToNextKeyword()
			continue
		}
		res := c.SkipFold(start, cd, hls)
		if err := folds.CheckedInsert(start.Nr, res.SkipEnd, start.Kw); err != nil {
			return err
		}
		if res.Next == nil {
			return nil
		}
		if res.Next.IsKeyword() {
			start = *res.Next
		} else {
			start, ok = c.SkipToNextKeyword()
		}
	}
	return nil
}
