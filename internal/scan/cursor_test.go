package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/lines"
)

func window(ss ...string) []lines.Line {
	return lines.FromStrings(ss).All()
}

func TestCursor_NextSkipsComments(t *testing.T) {
	c := NewCursor(window(
		"#This",
		"$is",
		"#an",
		"#example",
		"of",
		"some",
		"lines",
		".",
	))

	l, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 4, l.Nr)
	assert.Equal(t, "of", string(l.Text))

	l, ok = c.Next()
	require.True(t, ok)
	assert.Equal(t, 5, l.Nr)
	assert.Equal(t, "some", string(l.Text))
}

func TestCursor_SkipToNextKeyword(t *testing.T) {
	c := NewCursor(window(
		"#Comment",
		"   nokeyword",
		"NODE  / ",
		"#example",
		"NSMAS / ",
		"some",
		"lines",
		".",
	))

	l, ok := c.SkipToNextKeyword()
	require.True(t, ok)
	assert.Equal(t, 2, l.Nr)
	assert.Equal(t, card.KwNode, l.Kw)

	l, ok = c.SkipToNextKeyword()
	require.True(t, ok)
	assert.Equal(t, 4, l.Nr)
	assert.Equal(t, card.KwNsmas, l.Kw)

	_, ok = c.SkipToNextKeyword()
	assert.False(t, ok)
}

func TestCursor_SkipGesUntilEnd(t *testing.T) {
	c := NewCursor(window(
		"        PART 1234",
		"        OGRP 'hausbau'",
		"        DELGRP>NOD 'nix'",
		"        END",
		"NODE  / ",
	))

	start, ok := c.Next()
	require.True(t, ok)

	res, applicable := c.SkipGes(card.GesNode, start)
	require.True(t, applicable)
	assert.Equal(t, 3, res.SkipEnd, "the END line is part of the selection")
	require.NotNil(t, res.Next)
	assert.Equal(t, 4, res.Next.Nr)
	assert.Equal(t, card.KwNode, res.Next.Kw)
}

func TestCursor_SkipGesTwoSelections(t *testing.T) {
	c := NewCursor(window(
		"        PART 1234",
		"        OGRP 'hausbau'",
		"        END",
		"        DELGRP>NOD 'nix'",
		"        MOD 10234",
		"        NOD 1 23 093402 82",
		"        END_MOD",
		"        DELELE 12",
		"        END",
	))

	start, ok := c.Next()
	require.True(t, ok)

	res, applicable := c.SkipGes(card.GesNode, start)
	require.True(t, applicable)
	assert.Equal(t, 2, res.SkipEnd)
	require.NotNil(t, res.Next)
	assert.Equal(t, 3, res.Next.Nr)

	res, applicable = c.SkipGes(card.GesNode, *res.Next)
	require.True(t, applicable)
	assert.Equal(t, 8, res.SkipEnd)
	assert.Nil(t, res.Next, "input ends inside the second selection")
}

func TestCursor_SkipGesEndedByKeywordLine(t *testing.T) {
	c := NewCursor(window(
		"        PART 1234",
		"        OGRP 'hausbau'",
		"NODE  /         END",
		"        DELGRP>NOD 'nix'",
		"        MOD 10234",
		"        NOD 1 23 093402 82",
		"        END_MOD",
		"Whatever",
		"        END",
	))

	start, ok := c.Next()
	require.True(t, ok)

	res, applicable := c.SkipGes(card.GesNode, start)
	require.True(t, applicable)
	assert.Equal(t, 1, res.SkipEnd, "a keyword line closes the selection without being consumed")
	require.NotNil(t, res.Next)
	assert.Equal(t, 2, res.Next.Nr)
	assert.Equal(t, card.KwNode, res.Next.Kw)

	res, applicable = c.SkipGes(card.GesNode, c.mustNext(t))
	require.True(t, applicable)
	assert.Equal(t, 6, res.SkipEnd)
	require.NotNil(t, res.Next)
	assert.Equal(t, 7, res.Next.Nr)
	assert.Equal(t, "Whatever", string(res.Next.Text))

	l, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 8, l.Nr)
	assert.Equal(t, "        END", string(l.Text))
}

func TestCursor_SkipGesNotApplicable(t *testing.T) {
	c := NewCursor(window(
		"wupdiwup",
		"NODE  / ",
	))

	start, ok := c.Next()
	require.True(t, ok)

	_, applicable := c.SkipGes(card.GesNode, start)
	assert.False(t, applicable, "a non-member line is not part of the selection")

	l, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 1, l.Nr, "a not-applicable call must not advance the cursor")
	assert.Equal(t, card.KwNode, l.Kw)
}

func TestCursor_SkipGesAcrossComments(t *testing.T) {
	c := NewCursor(window(
		"        PART 1234",
		"#Comment here",
		"        OGRP 'hausbau'",
		"$Another comment",
		"        END",
		"$Comment after end",
		"NODE  / ",
	))

	start, ok := c.Next()
	require.True(t, ok)

	res, applicable := c.SkipGes(card.GesNode, start)
	require.True(t, applicable)
	assert.Equal(t, 4, res.SkipEnd)
	require.NotNil(t, res.Next)
	assert.Equal(t, 6, res.Next.Nr)
}

func TestCursor_SkipGesTrailingComments(t *testing.T) {
	c := NewCursor(window(
		"        PART 1234",
		"#Comment here",
		"$Another comment",
		"#Yet another",
	))

	start, ok := c.Next()
	require.True(t, ok)

	res, applicable := c.SkipGes(card.GesNode, start)
	require.True(t, applicable)
	assert.Equal(t, 0, res.SkipEnd)
	assert.Nil(t, res.Next)
}

// mustNext is a test shorthand for an advance that has to succeed.
func (c *Cursor) mustNext(t *testing.T) lines.Line {
	t.Helper()
	l, ok := c.Next()
	require.True(t, ok)
	return l
}

func TestCursor_NeverYieldsComments(t *testing.T) {
	vocab := []string{
		"$ comment",
		"# another",
		"NODE  / ",
		"SHELL /        1",
		"        NOD 1",
		"        END",
		"plain content",
		"",
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(t, "lineCount")
		ss := make([]string, n)
		for i := range ss {
			ss[i] = vocab[rapid.IntRange(0, len(vocab)-1).Draw(t, "line")]
		}

		c := NewCursor(lines.FromStrings(ss).All())
		prev := -1
		for {
			l, ok := c.Next()
			if !ok {
				break
			}
			assert.NotEqual(t, card.KwComment, l.Kw)
			assert.Greater(t, l.Nr, prev, "cursor is strictly forward")
			prev = l.Nr
		}
	})
}

func TestCursor_SkipGesTotal(t *testing.T) {
	vocab := []string{
		"        PART 1234",
		"        NOD 1 2 3",
		"        END",
		"        END_MOD",
		"$ comment",
		"NODE  / ",
		"junk",
		strings.Repeat(" ", 8),
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 32).Draw(t, "lineCount")
		ss := make([]string, n)
		for i := range ss {
			ss[i] = vocab[rapid.IntRange(0, len(vocab)-1).Draw(t, "line")]
		}
		g := card.GesType(rapid.IntRange(0, 1).Draw(t, "ges"))

		c := NewCursor(lines.FromStrings(ss).All())
		start, ok := c.Next()
		if !ok {
			return
		}

		res, applicable := c.SkipGes(g, start)
		if !applicable {
			// Exactly the lines matching neither predicate are rejected.
			assert.False(t, g.Contains(start.Text))
			assert.False(t, g.EndedBy(start.Text))
			return
		}
		assert.GreaterOrEqual(t, res.SkipEnd, start.Nr)
		if res.Next != nil {
			assert.Greater(t, res.Next.Nr, res.SkipEnd)
		}
	})
}
