// Package lines maintains the buffer view the engine parses: an ordered,
// line-numbered sequence of byte slices, each tagged with its recognized
// keyword. Text is borrowed, never copied per parse; edits replace a line
// range wholesale and renumber the tail.
package lines

import (
	"bytes"

	"github.com/pamfold/pamfold/internal/card"
)

// Line is one numbered, keyword-tagged view into buffer text.
type Line struct {
	Nr   int
	Text []byte
	Kw   card.Keyword
}

// IsKeyword reports whether the line can start a card. Comment lines
// cannot, even though they carry a classification.
func (l Line) IsKeyword() bool {
	return l.Kw != card.KwNone && l.Kw != card.KwComment
}

// Lines is the ordered line container for one buffer.
type Lines struct {
	lines []Line
}

func tag(text []byte) Line {
	return Line{Text: text, Kw: card.ParseKeyword(text)}
}

// FromBytes splits a whole buffer on newlines. A trailing newline does not
// produce a phantom empty line; carriage returns are stripped.
func FromBytes(buf []byte) *Lines {
	if len(buf) == 0 {
		return &Lines{}
	}
	raw := bytes.Split(buf, []byte{'\n'})
	if len(raw) > 0 && len(raw[len(raw)-1]) == 0 {
		raw = raw[:len(raw)-1]
	}
	ls := &Lines{lines: make([]Line, len(raw))}
	for i, t := range raw {
		t = bytes.TrimSuffix(t, []byte{'\r'})
		ls.lines[i] = tag(t)
		ls.lines[i].Nr = i
	}
	return ls
}

// FromStrings builds the container from editor-delivered line data.
func FromStrings(ss []string) *Lines {
	ls := &Lines{lines: make([]Line, len(ss))}
	for i, s := range ss {
		ls.lines[i] = tag([]byte(s))
		ls.lines[i].Nr = i
	}
	return ls
}

// Len returns the number of lines.
func (ls *Lines) Len() int { return len(ls.lines) }

// At returns line nr. Callers index within bounds.
func (ls *Lines) At(nr int) Line { return ls.lines[nr] }

// All returns the full line slice, read-only by convention.
func (ls *Lines) All() []Line { return ls.lines }

// Window returns the sub-slice [first, last), clamped to the container.
func (ls *Lines) Window(first, last int) []Line {
	if first < 0 {
		first = 0
	}
	if last > len(ls.lines) {
		last = len(ls.lines)
	}
	if first >= last {
		return nil
	}
	return ls.lines[first:last]
}

// Update replaces the line range [first, last) with the replacement text,
// re-tags the new lines, renumbers everything from first on, and returns
// the line count delta.
func (ls *Lines) Update(first, last int, repl []string) int {
	if first < 0 {
		first = 0
	}
	if last > len(ls.lines) {
		last = len(ls.lines)
	}
	if first > last {
		first = last
	}
	next := make([]Line, 0, len(ls.lines)-(last-first)+len(repl))
	next = append(next, ls.lines[:first]...)
	for _, s := range repl {
		next = append(next, tag([]byte(s)))
	}
	next = append(next, ls.lines[last:]...)
	for i := first; i < len(next); i++ {
		next[i].Nr = i
	}
	ls.lines = next
	return len(repl) - (last - first)
}

// FirstBefore returns the number of the nearest keyword line at or before
// nr, or 0 when none exists.
func (ls *Lines) FirstBefore(nr int) int {
	if nr >= len(ls.lines) {
		nr = len(ls.lines) - 1
	}
	for i := nr; i >= 0; i-- {
		if ls.lines[i].IsKeyword() {
			return i
		}
	}
	return 0
}

// FirstAfter returns the number of the nearest keyword line at or after
// nr, or Len() when none exists.
func (ls *Lines) FirstAfter(nr int) int {
	if nr < 0 {
		nr = 0
	}
	for i := nr; i < len(ls.lines); i++ {
		if ls.lines[i].IsKeyword() {
			return i
		}
	}
	return len(ls.lines)
}
