// Package testutil builds readable deck fixtures for tests. Card lines
// are column-sensitive, so tests compose decks through the builder
// instead of hand-aligning literals.
package testutil

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates deck lines in order.
type Builder struct {
	t      *testing.T
	lines  []string
	nextID int
}

// B creates a deck builder.
func B(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, nextID: 1}
}

// Node appends one NODE line: id in an 8-column field, coordinates in
// 16-column fields.
func (b *Builder) Node(id int, x, y, z float64) *Builder {
	b.lines = append(b.lines, "NODE  / "+b.field8(id)+
		b.field16(x)+b.field16(y)+b.field16(z))
	if id >= b.nextID {
		b.nextID = id + 1
	}
	return b
}

// NodeRun appends count NODE lines with sequential ids, continuing
// after the highest id used so far.
func (b *Builder) NodeRun(count int) *Builder {
	for i := 0; i < count; i++ {
		b.Node(b.nextID, 0, 0.5, 0)
	}
	return b
}

// Shell appends one SHELL line: element id, part id, then node ids,
// all in 8-column fields. Trailing fields may be left off; short lines
// parse as truncated cards.
func (b *Builder) Shell(id, part int, nodes ...int) *Builder {
	var sb strings.Builder
	sb.WriteString("SHELL / " + b.field8(id) + b.field8(part))
	for _, n := range nodes {
		sb.WriteString(b.field8(n))
	}
	b.lines = append(b.lines, sb.String())
	return b
}

// Mass appends a complete MASS card: keyword line, NAME line, two
// property lines and a one-node GES closed with END.
func (b *Builder) Mass(id int, name string) *Builder {
	b.lines = append(b.lines,
		"MASS  / "+b.field8(id)+b.field8(0),
		"NAME "+name,
		"                      0.              0.              0.",
		"                      0.              0.              0.",
		"        NOD 1",
		"        END",
	)
	return b
}

// Comment appends one $-comment line.
func (b *Builder) Comment(text string) *Builder {
	b.lines = append(b.lines, "$ "+text)
	return b
}

// Blank appends an empty line.
func (b *Builder) Blank() *Builder {
	b.lines = append(b.lines, "")
	return b
}

// Raw appends lines verbatim, for shapes the builder has no helper for.
func (b *Builder) Raw(lines ...string) *Builder {
	b.lines = append(b.lines, lines...)
	return b
}

// Lines returns the accumulated deck.
func (b *Builder) Lines() []string {
	return b.lines
}

// Text returns the deck as file content with a trailing newline.
func (b *Builder) Text() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// field8 renders an integer right-aligned in 8 columns, failing the
// test on overflow: an oversized value would silently shift every
// field after it.
func (b *Builder) field8(n int) string {
	s := strconv.Itoa(n)
	require.LessOrEqual(b.t, len(s), 8, "value %d overflows its 8-column field", n)
	return fmt.Sprintf("%8s", s)
}

// field16 renders a coordinate right-aligned in 16 columns, the way
// solver decks write them: shortest form, always with a decimal point.
func (b *Builder) field16(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	require.LessOrEqual(b.t, len(s), 16, "value %v overflows its 16-column field", f)
	return fmt.Sprintf("%16s", s)
}
