package diffsplit_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/diffsplit"
)

const (
	nodeLine  = "NODE  /        1              0.             0.5              0."
	shellLine = "SHELL /     3129       1       1    2967    2971    2970"
)

// requireApplies replays ws over old and checks the result is new,
// normalizing the nil/empty distinction for empty buffers.
func requireApplies(t *testing.T, old, new []string, ws []diffsplit.Window) {
	t.Helper()
	got := append([]string(nil), diffsplit.Apply(old, ws)...)
	want := append([]string(nil), new...)
	require.Equal(t, want, got)
}

func TestWindows_Identical(t *testing.T) {
	assert.Nil(t, diffsplit.Windows(nil, nil))
	assert.Nil(t, diffsplit.Windows([]string{}, nil))
	assert.Nil(t, diffsplit.Windows(
		[]string{nodeLine, shellLine},
		[]string{nodeLine, shellLine},
	))
}

func TestWindows_SingleLineEdit(t *testing.T) {
	old := []string{"a", "b", "c", "d", "e"}
	new := []string{"a", "b", "X", "d", "e"}

	ws := diffsplit.Windows(old, new)

	assert.Equal(t, []diffsplit.Window{
		{First: 2, Last: 3, Lines: []string{"X"}},
	}, ws)
	requireApplies(t, old, new, ws)
}

func TestWindows_PureInsert(t *testing.T) {
	old := []string{"a", "b", "c"}
	new := []string{"a", "b", "n1", "n2", "c"}

	ws := diffsplit.Windows(old, new)

	assert.Equal(t, []diffsplit.Window{
		{First: 2, Last: 2, Lines: []string{"n1", "n2"}},
	}, ws)
	requireApplies(t, old, new, ws)
}

func TestWindows_PureDelete(t *testing.T) {
	old := []string{"a", "b", "c", "d"}
	new := []string{"a", "d"}

	ws := diffsplit.Windows(old, new)

	assert.Equal(t, []diffsplit.Window{
		{First: 1, Last: 3, Lines: nil},
	}, ws)
	requireApplies(t, old, new, ws)
}

func TestWindows_EmptyBuffers(t *testing.T) {
	content := []string{"a", "b", "c"}

	assert.Equal(t, []diffsplit.Window{
		{First: 0, Last: 0, Lines: content},
	}, diffsplit.Windows(nil, content), "fill an empty buffer")

	assert.Equal(t, []diffsplit.Window{
		{First: 0, Last: 3, Lines: nil},
	}, diffsplit.Windows(content, nil), "empty a full buffer")
}

func TestWindows_DistantEditsDrift(t *testing.T) {
	old := []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9"}
	// Replace l1 with two lines, delete l8. The second window's
	// coordinates must include the +1 drift of the first.
	new := []string{"l0", "x1", "x2", "l2", "l3", "l4", "l5", "l6", "l7", "l9"}

	ws := diffsplit.Windows(old, new)

	assert.Equal(t, []diffsplit.Window{
		{First: 1, Last: 2, Lines: []string{"x1", "x2"}},
		{First: 9, Last: 10, Lines: nil},
	}, ws)
	requireApplies(t, old, new, ws)
}

func TestWindows_CoalescesNearbyHunks(t *testing.T) {
	old := []string{"l0", "l1", "l2", "l3", "l4", "l5"}
	// l1 and l3 change; the single unchanged line between them rides
	// along in one merged window.
	new := []string{"l0", "X1", "l2", "X3", "l4", "l5"}

	ws := diffsplit.Windows(old, new)

	assert.Equal(t, []diffsplit.Window{
		{First: 1, Last: 4, Lines: []string{"X1", "l2", "X3"}},
	}, ws)
	requireApplies(t, old, new, ws)
}

func TestWindows_FarHunksStaySeparate(t *testing.T) {
	old := make([]string, 10)
	for i := range old {
		old[i] = string(rune('a' + i))
	}
	new := slices.Clone(old)
	new[0] = "X"
	new[9] = "Y"

	ws := diffsplit.Windows(old, new)

	require.Len(t, ws, 2, "hunks nine lines apart must not merge")
	requireApplies(t, old, new, ws)
}

// genLines draws short buffers from a tiny alphabet so repeated lines
// stress the diff alignment.
func genLines(t *rapid.T, label string) []string {
	vocab := []string{"a", "b", "c", ""}
	n := rapid.IntRange(0, 20).Draw(t, label+"Len")
	out := make([]string, n)
	for i := range out {
		out[i] = vocab[rapid.IntRange(0, len(vocab)-1).Draw(t, label+"Line")]
	}
	return out
}

func TestWindows_ApplyReconstructs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		old := genLines(t, "old")
		new := genLines(t, "new")

		ws := diffsplit.Windows(old, new)

		// Every window must be in bounds of the buffer as it stands
		// when the window is applied.
		cur := slices.Clone(old)
		for _, w := range ws {
			require.GreaterOrEqual(t, w.First, 0)
			require.LessOrEqual(t, w.First, w.Last)
			require.LessOrEqual(t, w.Last, len(cur))
			require.True(t, w.Last > w.First || len(w.Lines) > 0,
				"windows must describe an actual change")
			cur = diffsplit.Apply(cur, []diffsplit.Window{w})
		}

		require.Equal(t,
			append([]string(nil), new...),
			append([]string(nil), cur...))
	})
}

// genDeck draws buffers from a vocabulary of card lines so the windows
// land on real fold boundaries.
func genDeck(t *rapid.T, label string) []string {
	vocab := []string{
		"$ comment",
		nodeLine,
		shellLine,
		"MASS  /        1       0",
		"NAME some card",
		"        NOD 1 2 3",
		"        END",
		"plain text",
		"",
	}
	n := rapid.IntRange(0, 24).Draw(t, label+"Len")
	out := make([]string, n)
	for i := range out {
		out[i] = vocab[rapid.IntRange(0, len(vocab)-1).Draw(t, label+"Line")]
	}
	return out
}

// Feeding the window stream through incremental updates must land in
// exactly the state a full parse of the new content produces.
func TestWindows_DriveIncrementalUpdate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		old := genDeck(t, "old")
		new := genDeck(t, "new")

		d := bufdata.New()
		require.NoError(t, d.ParseStrings(old))

		shadow := slices.Clone(old)
		for _, w := range diffsplit.Windows(old, new) {
			shadow = diffsplit.Apply(shadow, []diffsplit.Window{w})
			if _, err := d.Update(w.First, w.Last, w.Lines); err != nil {
				// Structural violation: rebuild, like the plugin does.
				require.NoError(t, d.ParseStrings(shadow))
			}
		}
		require.Equal(t,
			append([]string(nil), new...),
			append([]string(nil), shadow...))

		want := bufdata.New()
		require.NoError(t, want.ParseStrings(new))
		assert.Equal(t, want.LineCount(), d.LineCount())
		assert.Equal(t, want.AllFolds(), d.AllFolds())

		norm := func(hls []bufdata.Highlight) []bufdata.Highlight {
			return append([]bufdata.Highlight(nil), hls...)
		}
		assert.Equal(t,
			norm(want.HighlightsIn(0, want.LineCount())),
			norm(d.HighlightsIn(0, d.LineCount())))
	})
}
