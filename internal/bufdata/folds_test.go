package bufdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pamfold/pamfold/internal/card"
)

func TestCheckedInsert_Ordering(t *testing.T) {
	f := NewFolds()
	require.NoError(t, f.CheckedInsert(0, 3, card.KwNode))
	require.NoError(t, f.CheckedInsert(4, 4, card.KwShell))

	assert.ErrorIs(t, f.CheckedInsert(4, 6, card.KwMass), ErrFoldOrder, "touching the predecessor is out of order")
	assert.ErrorIs(t, f.CheckedInsert(2, 8, card.KwMass), ErrFoldOrder)
	assert.ErrorIs(t, f.CheckedInsert(7, 6, card.KwMass), ErrFoldOrder, "inverted extent")
	assert.Equal(t, 2, f.Len(), "rejected inserts leave the list alone")

	require.NoError(t, f.CheckedInsert(6, 8, card.KwMass))
	assert.Equal(t, 3, f.Len())
}

func TestFoldNeighbors(t *testing.T) {
	f := NewFolds()
	require.NoError(t, f.CheckedInsert(2, 5, card.KwNode))
	require.NoError(t, f.CheckedInsert(8, 8, card.KwShell))

	fo, ok := f.Containing(3)
	require.True(t, ok)
	assert.Equal(t, 2, fo.Start)
	fo, ok = f.Containing(8)
	require.True(t, ok)
	assert.Equal(t, card.KwShell, fo.Kw)
	for _, nr := range []int{0, 6, 9} {
		_, ok = f.Containing(nr)
		assert.False(t, ok, "line %d is outside every fold", nr)
	}

	fo, ok = f.Preceding(8)
	require.True(t, ok)
	assert.Equal(t, card.KwNode, fo.Kw)
	_, ok = f.Preceding(2)
	assert.False(t, ok, "nothing ends before the first fold")

	fo, ok = f.FollowingAt(6)
	require.True(t, ok)
	assert.Equal(t, 8, fo.Start)
	fo, ok = f.FollowingAt(2)
	require.True(t, ok)
	assert.Equal(t, 2, fo.Start)
	_, ok = f.FollowingAt(9)
	assert.False(t, ok)
}

func TestRecreateLevel2_GroupsByFamily(t *testing.T) {
	f := NewFolds()
	for _, in := range []struct {
		start, end int
		kw         card.Keyword
	}{
		{0, 3, card.KwNode},
		{4, 5, card.KwCnode},
		{8, 9, card.KwShell},
		{12, 14, card.KwPart},
		{16, 18, card.KwFunct},
		{20, 22, card.KwPyfunc},
	} {
		require.NoError(t, f.CheckedInsert(in.start, in.end, in.kw))
	}
	f.RecreateLevel2()

	entries := f.Entries()
	require.Len(t, entries, 8, "six level-1 folds plus two family folds")

	assert.Equal(t, FoldEntry{Start: 1, End: 4, Text: " 4 lines: NODE ", Level: 1}, entries[0])
	assert.Equal(t, FoldEntry{Start: 5, End: 6, Text: " 2 lines: CNODE ", Level: 1}, entries[1])
	assert.Equal(t, FoldEntry{Start: 9, End: 10, Text: " 2 lines: SHELL ", Level: 1}, entries[2])

	assert.Equal(t, FoldEntry{Start: 1, End: 6, Text: " 2 cards: Nodes ", Level: 2}, entries[6])
	assert.Equal(t, FoldEntry{Start: 17, End: 23, Text: " 2 cards: Functions ", Level: 2}, entries[7])

	f.RecreateLevel2()
	assert.Equal(t, entries, f.Entries(), "derivation is idempotent")
}

func TestSplice(t *testing.T) {
	build := func(t *testing.T) *Folds {
		t.Helper()
		f := NewFolds()
		require.NoError(t, f.CheckedInsert(0, 2, card.KwNode))
		require.NoError(t, f.CheckedInsert(4, 6, card.KwMass))
		require.NoError(t, f.CheckedInsert(8, 10, card.KwShell))
		return f
	}
	sub := func(t *testing.T, folds ...Fold) *Folds {
		t.Helper()
		s := NewFolds()
		for _, fo := range folds {
			require.NoError(t, s.CheckedInsert(fo.Start, fo.End, fo.Kw))
		}
		return s
	}

	t.Run("replace middle with longer card", func(t *testing.T) {
		f := build(t)
		require.NoError(t, f.Splice(sub(t, Fold{4, 7, card.KwMass}), 4, 8, 1))
		assert.Equal(t, []Fold{
			{0, 2, card.KwNode},
			{4, 7, card.KwMass},
			{9, 11, card.KwShell},
		}, f.Level1())
	})

	t.Run("empty sub clears the window", func(t *testing.T) {
		f := build(t)
		require.NoError(t, f.Splice(NewFolds(), 4, 8, -4))
		assert.Equal(t, []Fold{
			{0, 2, card.KwNode},
			{4, 6, card.KwShell},
		}, f.Level1())
	})

	t.Run("pure insertion shifts the tail", func(t *testing.T) {
		f := build(t)
		require.NoError(t, f.Splice(sub(t, Fold{4, 5, card.KwPart}), 4, 4, 2))
		assert.Equal(t, []Fold{
			{0, 2, card.KwNode},
			{4, 5, card.KwPart},
			{6, 8, card.KwMass},
			{10, 12, card.KwShell},
		}, f.Level1())
	})

	t.Run("boundary straddle is rejected untouched", func(t *testing.T) {
		f := build(t)
		before := append([]Fold(nil), f.Level1()...)
		err := f.Splice(NewFolds(), 5, 8, 0)
		assert.ErrorIs(t, err, ErrSpliceBoundary)
		assert.Equal(t, before, f.Level1())
	})
}

func TestCheckedInsert_KeepsDisjointSorted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewFolds()
		prevEnd := -1
		n := rapid.IntRange(1, 20).Draw(t, "folds")
		for i := 0; i < n; i++ {
			start := prevEnd + 1 + rapid.IntRange(0, 3).Draw(t, "gap")
			end := start + rapid.IntRange(0, 5).Draw(t, "len")
			require.NoError(t, f.CheckedInsert(start, end, card.KwNode))
			prevEnd = end
		}

		l1 := f.Level1()
		require.Len(t, l1, n)
		for i := 1; i < len(l1); i++ {
			assert.Greater(t, l1[i].Start, l1[i-1].End)
		}
		assert.ErrorIs(t, f.CheckedInsert(prevEnd, prevEnd+2, card.KwShell), ErrFoldOrder)
	})
}
