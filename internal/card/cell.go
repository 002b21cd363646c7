package card

import (
	"bytes"
	"strconv"
)

// CellKind discriminates the fixed-width cell variants of a row layout.
type CellKind int

const (
	CellKw      CellKind = iota // the keyword columns themselves
	CellFixed                   // a literal the line must carry verbatim
	CellInteger                 // optionally signed decimal, blank allowed
	CellFloat                   // floating point number, blank allowed
	CellStr                     // free text, never wrong
	CellBlank                   // must stay empty
)

// Cell is one fixed-width column group of a row layout.
type Cell struct {
	Kind  CellKind
	Width int
	Lit   string // CellFixed only
}

// Layout shorthands used by the registry tables.
var KW = Cell{Kind: CellKw, Width: KeywordWidth}

func Int(w int) Cell   { return Cell{Kind: CellInteger, Width: w} }
func Float(w int) Cell { return Cell{Kind: CellFloat, Width: w} }
func Str(w int) Cell   { return Cell{Kind: CellStr, Width: w} }
func Blank(w int) Cell { return Cell{Kind: CellBlank, Width: w} }

func Fixed(lit string) Cell { return Cell{Kind: CellFixed, Width: len(lit), Lit: lit} }

// Group names the highlight class of a span. Even/odd variants alternate
// by cell position so adjacent cells stay distinguishable.
type Group int

const (
	GroupKeyword Group = iota
	GroupCellEven
	GroupCellOdd
	GroupErrorCellEven
	GroupErrorCellOdd
)

// String returns the editor-side highlight group name.
func (g Group) String() string {
	switch g {
	case GroupKeyword:
		return "PamfoldKeyword"
	case GroupCellEven:
		return "PamfoldCellEven"
	case GroupCellOdd:
		return "PamfoldCellOdd"
	case GroupErrorCellEven:
		return "PamfoldErrorCellEven"
	case GroupErrorCellOdd:
		return "PamfoldErrorCellOdd"
	default:
		return "PamfoldCell"
	}
}

// Span is a half-open byte-column interval of one line, tagged with its
// highlight group.
type Span struct {
	Start int
	End   int
	Group Group
}

// cellGroup picks the group for cell index i, error variant when the
// content failed the cell's check.
func cellGroup(i int, bad bool) Group {
	even := i%2 == 0
	switch {
	case bad && even:
		return GroupErrorCellEven
	case bad:
		return GroupErrorCellOdd
	case even:
		return GroupCellEven
	default:
		return GroupCellOdd
	}
}

// spans walks the layout left to right and emits one span per cell that
// overlaps actual text. Lines shorter than the layout simply stop
// producing spans; over-long lines leave the excess columns unhighlighted.
func spans(layout []Cell, text []byte) []Span {
	var out []Span
	col := 0
	for i, c := range layout {
		start := col
		col += c.Width
		if start >= len(text) {
			break
		}
		end := col
		if end > len(text) {
			end = len(text)
		}
		content := text[start:end]
		switch c.Kind {
		case CellKw:
			out = append(out, Span{start, end, GroupKeyword})
		case CellFixed:
			if string(content) == c.Lit {
				out = append(out, Span{start, end, GroupKeyword})
			} else {
				out = append(out, Span{start, end, cellGroup(i, true)})
			}
		case CellInteger:
			out = append(out, Span{start, end, cellGroup(i, !validInt(content))})
		case CellFloat:
			out = append(out, Span{start, end, cellGroup(i, !validFloat(content))})
		case CellStr:
			out = append(out, Span{start, end, cellGroup(i, false)})
		case CellBlank:
			if len(bytes.TrimSpace(content)) > 0 {
				out = append(out, Span{start, end, cellGroup(i, true)})
			}
		}
	}
	return out
}

func validInt(content []byte) bool {
	s := bytes.TrimSpace(content)
	if len(s) == 0 {
		return true
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for _, b := range s {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

func validFloat(content []byte) bool {
	s := bytes.TrimSpace(content)
	if len(s) == 0 {
		return true
	}
	_, err := strconv.ParseFloat(string(s), 64)
	return err == nil
}
