package bufdata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/carddef"
)

// Structural invariant violations. Both are fatal to the running pass; the
// caller recovers by rebuilding from the full buffer.
var (
	ErrFoldOrder      = errors.New("fold does not start after its predecessor")
	ErrSpliceBoundary = errors.New("fold straddles the splice window")
)

// Fold is one level-1 extent: the lines of a single card, or of a gathered
// run of same-keyword cards. Start and End are 0-based and inclusive.
type Fold struct {
	Start int
	End   int
	Kw    card.Keyword
}

// familyFold is one derived level-2 extent covering a run of consecutive
// level-1 folds that share a family.
type familyFold struct {
	Start  int
	End    int
	Cards  int
	Family carddef.Family
}

// FoldEntry is the transmission shape of a fold: 1-based inclusive line
// range, the text the editor displays on the closed fold, and the fold
// level it belongs to.
type FoldEntry struct {
	Start int
	End   int
	Text  string
	Level int
}

// Folds holds the sorted, non-overlapping level-1 folds of one buffer and
// the level-2 overlay derived from them.
type Folds struct {
	level1 []Fold
	level2 []familyFold
}

func NewFolds() *Folds { return &Folds{} }

// Len returns the number of level-1 folds.
func (f *Folds) Len() int { return len(f.level1) }

// Level1 returns the level-1 folds in order.
func (f *Folds) Level1() []Fold { return f.level1 }

// CheckedInsert appends the extent [start, end]. Inserts arrive in walk
// order, so the new fold must start strictly after the last one ends;
// anything else means the walker lost track of its position.
func (f *Folds) CheckedInsert(start, end int, kw card.Keyword) error {
	if end < start {
		return fmt.Errorf("%w: [%d, %d] is inverted", ErrFoldOrder, start, end)
	}
	if n := len(f.level1); n > 0 && start <= f.level1[n-1].End {
		last := f.level1[n-1]
		return fmt.Errorf("%w: [%d, %d] after [%d, %d]", ErrFoldOrder, start, end, last.Start, last.End)
	}
	f.level1 = append(f.level1, Fold{Start: start, End: end, Kw: kw})
	return nil
}

// Containing returns the level-1 fold holding line nr.
func (f *Folds) Containing(nr int) (Fold, bool) {
	i := sort.Search(len(f.level1), func(i int) bool { return f.level1[i].End >= nr })
	if i < len(f.level1) && f.level1[i].Start <= nr {
		return f.level1[i], true
	}
	return Fold{}, false
}

// Preceding returns the last level-1 fold ending before line nr.
func (f *Folds) Preceding(nr int) (Fold, bool) {
	i := sort.Search(len(f.level1), func(i int) bool { return f.level1[i].End >= nr })
	if i == 0 {
		return Fold{}, false
	}
	return f.level1[i-1], true
}

// FollowingAt returns the first level-1 fold starting at or after line nr.
func (f *Folds) FollowingAt(nr int) (Fold, bool) {
	i := sort.Search(len(f.level1), func(i int) bool { return f.level1[i].Start >= nr })
	if i == len(f.level1) {
		return Fold{}, false
	}
	return f.level1[i], true
}

// Splice replaces every level-1 fold inside the window [first, lastEx) with
// sub's folds and shifts every fold at or after lastEx by delta. The window
// is in pre-edit coordinates; sub is already in post-edit coordinates. A
// fold straddling either boundary violates the whole-card window contract,
// and the container is left untouched.
func (f *Folds) Splice(sub *Folds, first, lastEx, delta int) error {
	merged := make([]Fold, 0, len(f.level1)+len(sub.level1))
	var tail []Fold
	for _, fo := range f.level1 {
		switch {
		case fo.End < first:
			merged = append(merged, fo)
		case fo.Start >= first && fo.End < lastEx:
			// Replaced by sub.
		case fo.Start >= lastEx:
			tail = append(tail, Fold{Start: fo.Start + delta, End: fo.End + delta, Kw: fo.Kw})
		default:
			return fmt.Errorf("%w: [%d, %d] vs [%d, %d)", ErrSpliceBoundary, fo.Start, fo.End, first, lastEx)
		}
	}
	merged = append(merged, sub.level1...)
	f.level1 = append(merged, tail...)
	return nil
}

// RecreateLevel2 derives the level-2 overlay from scratch: every run of two
// or more consecutive level-1 folds sharing a family merges into one
// covering fold. Pure in the level-1 list, cannot fail.
func (f *Folds) RecreateLevel2() {
	f.level2 = f.level2[:0]
	for i := 0; i < len(f.level1); {
		fam := carddef.FamilyOf(f.level1[i].Kw)
		j := i + 1
		for j < len(f.level1) && carddef.FamilyOf(f.level1[j].Kw) == fam {
			j++
		}
		if j-i >= 2 && fam != carddef.FamilyNone {
			f.level2 = append(f.level2, familyFold{
				Start:  f.level1[i].Start,
				End:    f.level1[j-1].End,
				Cards:  j - i,
				Family: fam,
			})
		}
		i = j
	}
}

// Entries packs level-1 then level-2 folds into transmission shape, 1-based
// inclusive.
func (f *Folds) Entries() []FoldEntry {
	out := make([]FoldEntry, 0, len(f.level1)+len(f.level2))
	for _, fo := range f.level1 {
		out = append(out, FoldEntry{
			Start: fo.Start + 1,
			End:   fo.End + 1,
			Text:  fmt.Sprintf(" %d lines: %s ", fo.End-fo.Start+1, fo.Kw),
			Level: 1,
		})
	}
	for _, g := range f.level2 {
		out = append(out, FoldEntry{
			Start: g.Start + 1,
			End:   g.End + 1,
			Text:  fmt.Sprintf(" %d cards: %s ", g.Cards, g.Family),
			Level: 2,
		})
	}
	return out
}
