package plugin

import (
	"context"
	"testing"

	"github.com/neovim/go-client/nvim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/testutil"
)

func applyFull(t *testing.T, p *Plugin, deck []string) {
	t.Helper()
	sends, quit, err := p.apply(context.Background(), LinesEvent{
		Changedtick: 1,
		First:       0,
		Last:        -1,
		Linedata:    deck,
	})
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, []send{{kind: sendFolds}}, sends)
}

func TestApply_FullTransmission(t *testing.T) {
	p := New(nil, Options{})
	applyFull(t, p, testutil.B(t).NodeRun(3).Lines())

	assert.Equal(t, 3, p.deck.LineCount())
	assert.Equal(t, []bufdata.FoldEntry{
		{Start: 1, End: 3, Text: " 3 lines: NODE ", Level: 1},
	}, p.deck.AllFolds())
}

func TestApply_TickZeroIgnored(t *testing.T) {
	p := New(nil, Options{})
	applyFull(t, p, testutil.B(t).NodeRun(3).Lines())

	sends, quit, err := p.apply(context.Background(), LinesEvent{
		Changedtick: 0,
		First:       0,
		Last:        -1,
		Linedata:    nil,
	})
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, sends)
	assert.Equal(t, 3, p.deck.LineCount(), "a tick-zero event must not touch the state")
}

func TestApply_IncrementalUpdate(t *testing.T) {
	p := New(nil, Options{})
	applyFull(t, p, testutil.B(t).NodeRun(5).Lines())

	shell := testutil.B(t).Shell(1, 1, 10, 11, 12).Lines()
	sends, quit, err := p.apply(context.Background(), LinesEvent{
		Changedtick: 2,
		First:       2,
		Last:        3,
		Linedata:    shell,
	})
	require.NoError(t, err)
	require.False(t, quit)

	assert.Equal(t, []send{
		{kind: sendHighlights, reg: bufdata.Region{First: 0, Last: 5}, clear: true},
	}, sends, "an ordinary edit resends highlights for the widened window only")

	assert.Equal(t, []bufdata.FoldEntry{
		{Start: 1, End: 2, Text: " 2 lines: NODE ", Level: 1},
		{Start: 3, End: 3, Text: " 1 lines: SHELL ", Level: 1},
		{Start: 4, End: 5, Text: " 2 lines: NODE ", Level: 1},
	}, p.deck.AllFolds())
}

func TestApply_NegativeRangeIgnored(t *testing.T) {
	p := New(nil, Options{})
	applyFull(t, p, testutil.B(t).NodeRun(2).Lines())

	sends, quit, err := p.apply(context.Background(), LinesEvent{
		Changedtick: 2,
		First:       -3,
		Last:        2,
		Linedata:    nil,
	})
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, sends)
	assert.Equal(t, 2, p.deck.LineCount())
}

func TestApply_HighlightRegionWidens(t *testing.T) {
	p := New(nil, Options{})
	applyFull(t, p, testutil.B(t).NodeRun(4).Mass(1, "m").Lines())

	sends, quit, err := p.apply(context.Background(), HighlightRegion{First: 5, Last: 7})
	require.NoError(t, err)
	require.False(t, quit)

	assert.Equal(t, []send{
		{kind: sendHighlights, reg: bufdata.Region{First: 4, Last: 10}},
	}, sends, "the region widens to the owning card and is sent without clearing")
}

func TestApply_ControlEvents(t *testing.T) {
	tests := []struct {
		name      string
		ev        any
		wantSends []send
		wantQuit  bool
	}{
		{"refresh folds", RefreshFolds{}, []send{{kind: sendFolds}}, false},
		{"changed tick", ChangedTickEvent{Buf: 1, Changedtick: 9}, nil, false},
		{"detach", DetachEvent{Buf: 1}, nil, true},
		{"quit", Quit{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil, Options{})
			applyFull(t, p, testutil.B(t).NodeRun(2).Lines())

			sends, quit, err := p.apply(context.Background(), tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuit, quit)
			assert.Equal(t, tt.wantSends, sends)
		})
	}
}

func TestHandlers_ConvertAndForward(t *testing.T) {
	p := New(nil, Options{})

	p.onLines(nvim.Buffer(3), int64(7), 4, 6, []string{"a", "b"}, false)
	assert.Equal(t, LinesEvent{
		Buf:         3,
		Changedtick: 7,
		First:       4,
		Last:        6,
		Linedata:    []string{"a", "b"},
	}, <-p.events)

	p.onLines(nvim.Buffer(3), nil, 0, -1, nil, true)
	ev := (<-p.events).(LinesEvent)
	assert.Zero(t, ev.Changedtick, "a nil changedtick converts to zero")
	assert.True(t, ev.More)

	p.onChangedTick(nvim.Buffer(2), uint64(11))
	assert.Equal(t, ChangedTickEvent{Buf: 2, Changedtick: 11}, <-p.events)

	p.onDetach(nvim.Buffer(2))
	assert.Equal(t, DetachEvent{Buf: 2}, <-p.events)

	p.onRefreshFolds()
	assert.Equal(t, RefreshFolds{}, <-p.events)

	p.onHighlightRegion(10, 20)
	assert.Equal(t, HighlightRegion{First: 10, Last: 20}, <-p.events)

	p.onQuit()
	assert.Equal(t, Quit{}, <-p.events)
}

func TestPush_NeverBlocksAfterShutdown(t *testing.T) {
	p := New(nil, Options{})
	p.shutdown()

	// Overfill the buffered channel; pushes past capacity bail out on done.
	for i := 0; i < eventBuffer+10; i++ {
		p.push(RefreshFolds{})
	}
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int64", int64(5), 5},
		{"uint64", uint64(6), 6},
		{"int", 7, 7},
		{"nil", nil, 0},
		{"string", "8", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, asInt64(tt.in))
		})
	}
}

func TestFoldArgs(t *testing.T) {
	args := foldArgs([]bufdata.FoldEntry{
		{Start: 1, End: 4, Text: " 4 lines: NODE ", Level: 1},
		{Start: 5, End: 10, Text: " 6 lines: MASS ", Level: 1},
	})

	assert.Equal(t, []foldArg{
		{Start: 1, End: 4, Text: " 4 lines: NODE "},
		{Start: 5, End: 10, Text: " 6 lines: MASS "},
	}, args)
}
