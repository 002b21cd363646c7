package card

import "bytes"

// Row is one step of a card's grammar. The walker processes rows in order
// against the comment-filtered line stream; every variant decides whether
// and how far to advance.
type Row interface {
	// Spans computes the highlight spans this row contributes for the
	// given line text. Variants without a cell layout contribute none.
	Spans(text []byte) []Span

	row()
}

// Cells is a single fixed-width line that emits highlights.
type Cells []Cell

// Provides is a fixed-width line that additionally evaluates a conditional
// and appends its result to the card instance's condition list.
type Provides struct {
	Cells Cells
	Cond  Conditional
}

// Optional is consumed only when the indexed prior condition held.
type Optional struct {
	Cells Cells
	Index int
}

// Repeat is consumed N times, N being the indexed prior condition's count.
type Repeat struct {
	Cells Cells
	Index int
}

// Block consumes lines up to and including one starting with End.
type Block struct {
	Cells Cells
	End   string
}

// OptionalBlock is entered only when the current line starts with Start,
// then consumes up to and including a line starting with End.
type OptionalBlock struct {
	Start string
	End   string
}

// Ges delegates to the general entity selection sub-grammar.
type Ges struct {
	GesType
}

func (Cells) row()         {}
func (Provides) row()      {}
func (Optional) row()      {}
func (Repeat) row()        {}
func (Block) row()         {}
func (OptionalBlock) row() {}
func (Ges) row()           {}

func (c Cells) Spans(text []byte) []Span         { return spans(c, text) }
func (p Provides) Spans(text []byte) []Span      { return spans(p.Cells, text) }
func (o Optional) Spans(text []byte) []Span      { return spans(o.Cells, text) }
func (r Repeat) Spans(text []byte) []Span        { return spans(r.Cells, text) }
func (b Block) Spans(text []byte) []Span         { return spans(b.Cells, text) }
func (OptionalBlock) Spans([]byte) []Span        { return nil }
func (Ges) Spans([]byte) []Span                  { return nil }

// StartsBlock reports whether text opens the optional block.
func (b OptionalBlock) StartsBlock(text []byte) bool {
	return bytes.HasPrefix(text, []byte(b.Start))
}

// EndsBlock reports whether text closes the optional block.
func (b OptionalBlock) EndsBlock(text []byte) bool {
	return bytes.HasPrefix(text, []byte(b.End))
}

// Ends reports whether text terminates the block.
func (b Block) Ends(text []byte) bool {
	return bytes.HasPrefix(text, []byte(b.End))
}

// condKind discriminates Conditional recognizers.
type condKind int

const (
	condRelChar condKind = iota
	condIntField
)

// Conditional is a recognizer a Provides row evaluates against its line.
// Results accumulate in row order into the card instance's condition list;
// Optional and Repeat rows reference them by position.
type Conditional struct {
	kind     condKind
	col, end int
	ch       byte
}

// RelChar holds when the byte at col equals ch. An out-of-bounds index
// evaluates to false, never to an error.
func RelChar(col int, ch byte) Conditional {
	return Conditional{kind: condRelChar, col: col, ch: ch}
}

// IntField parses the trimmed columns [start, end) as an unsigned decimal
// count; unparseable or empty content yields no count.
func IntField(start, end int) Conditional {
	return Conditional{kind: condIntField, col: start, end: end}
}

// Evaluate runs the recognizer over raw line text.
func (c Conditional) Evaluate(text []byte) CondResult {
	switch c.kind {
	case condRelChar:
		held := c.col < len(text) && text[c.col] == c.ch
		return CondResult{kind: resultBool, truth: held}
	case condIntField:
		if c.col >= len(text) {
			return CondResult{kind: resultNumber}
		}
		end := c.end
		if end > len(text) {
			end = len(text)
		}
		s := bytes.TrimSpace(text[c.col:end])
		if len(s) == 0 {
			return CondResult{kind: resultNumber}
		}
		n := 0
		for _, b := range s {
			if b < '0' || b > '9' {
				return CondResult{kind: resultNumber}
			}
			n = n*10 + int(b-'0')
		}
		return CondResult{kind: resultNumber, count: n, hasCount: true}
	default:
		return CondResult{}
	}
}

type resultKind int

const (
	resultBool resultKind = iota
	resultNumber
)

// CondResult is one evaluated conditional. The zero value acts as an
// absent condition (not true, no count), which is the degradation the
// walker wants for out-of-range references.
type CondResult struct {
	kind     resultKind
	truth    bool
	count    int
	hasCount bool
}

// True reports whether the condition evaluated to a boolean true.
func (r CondResult) True() bool {
	return r.kind == resultBool && r.truth
}

// Count returns the numeric result of an IntField condition, when present.
func (r CondResult) Count() (int, bool) {
	if r.kind != resultNumber || !r.hasCount {
		return 0, false
	}
	return r.count, true
}
