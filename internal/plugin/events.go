package plugin

import "github.com/neovim/go-client/nvim"

// LinesEvent mirrors nvim_buf_lines_event: the line range [First, Last)
// was replaced by Linedata. Both indices are 0-based; Last == -1 means
// the event carries the whole buffer. More signals that the editor split
// the transmission and continuation events follow.
type LinesEvent struct {
	Buf         nvim.Buffer
	Changedtick int64
	First       int64
	Last        int64
	Linedata    []string
	More        bool
}

// ChangedTickEvent mirrors nvim_buf_changedtick_event: a new tick
// without a text change, sent by undo and redo.
type ChangedTickEvent struct {
	Buf         nvim.Buffer
	Changedtick int64
}

// DetachEvent mirrors nvim_buf_detach_event: the editor stopped sending
// buffer updates, for example after :edit reloaded the buffer.
type DetachEvent struct {
	Buf nvim.Buffer
}

// RefreshFolds asks for a full fold resend.
type RefreshFolds struct{}

// HighlightRegion asks for highlights covering at least the inclusive
// line range [First, Last]; the region widens to card boundaries.
type HighlightRegion struct {
	First int64
	Last  int64
}

// Quit ends the plugin. Sent by the user through the companion Lua side.
type Quit struct{}
