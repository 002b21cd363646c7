// Package diffsplit turns two versions of a file into the edit windows
// an incremental update needs. The watch command uses it to feed on-disk
// changes through the same update path the editor drives, instead of
// re-parsing the whole file on every save.
package diffsplit

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// coalesceGap merges hunks separated by this many unchanged lines or
// fewer. Neighbouring card edits usually land in one update window,
// which saves repeated re-parses of the same card.
const coalesceGap = 2

// Window is one contiguous replacement: lines [First, Last) of the
// current buffer are replaced by Lines. Indices are 0-based and
// end-exclusive, and already account for the length drift of earlier
// windows, so callers apply windows strictly in order.
type Window struct {
	First int
	Last  int
	Lines []string
}

// hunk is a replacement in coordinates of the old buffer.
type hunk struct {
	oldFirst int
	oldLast  int
	lines    []string
}

// Windows computes the edit windows that turn old into new. It returns
// nil when the contents are identical.
func Windows(old, new []string) []Window {
	if slices.Equal(old, new) {
		return nil
	}

	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(joinLines(old), joinLines(new))
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	hunks := collectHunks(diffs)
	hunks = coalesce(hunks, old)

	// Convert old-buffer coordinates into apply-order coordinates:
	// each window shifts everything below it by the difference between
	// inserted and removed lines.
	windows := make([]Window, 0, len(hunks))
	drift := 0
	for _, h := range hunks {
		windows = append(windows, Window{
			First: h.oldFirst + drift,
			Last:  h.oldLast + drift,
			Lines: h.lines,
		})
		drift += len(h.lines) - (h.oldLast - h.oldFirst)
	}
	return windows
}

// Apply replays windows over old and returns the resulting lines.
// Windows produced by Windows(old, new) always reproduce new; the
// helper exists so callers can verify a window stream cheaply.
func Apply(old []string, windows []Window) []string {
	lines := slices.Clone(old)
	for _, w := range windows {
		rebuilt := make([]string, 0, len(lines)+len(w.Lines)-(w.Last-w.First))
		rebuilt = append(rebuilt, lines[:w.First]...)
		rebuilt = append(rebuilt, w.Lines...)
		rebuilt = append(rebuilt, lines[w.Last:]...)
		lines = rebuilt
	}
	return lines
}

// collectHunks walks the diff stream and groups runs of deletions and
// insertions between equal runs into hunks, tracked in old-buffer
// coordinates.
func collectHunks(diffs []diffmatchpatch.Diff) []hunk {
	var hunks []hunk
	var pending *hunk
	oldPos := 0

	flush := func() {
		if pending != nil {
			hunks = append(hunks, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			oldPos += n
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &hunk{oldFirst: oldPos, oldLast: oldPos}
			}
			pending.oldLast += n
			oldPos += n
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &hunk{oldFirst: oldPos, oldLast: oldPos}
			}
			pending.lines = append(pending.lines, splitLines(d.Text)...)
		}
	}
	flush()
	return hunks
}

// coalesce merges hunks whose separating equal run is at most
// coalesceGap lines, re-inserting the unchanged lines from old into the
// merged replacement.
func coalesce(hunks []hunk, old []string) []hunk {
	if len(hunks) < 2 {
		return hunks
	}

	merged := []hunk{hunks[0]}
	for _, h := range hunks[1:] {
		last := &merged[len(merged)-1]
		if h.oldFirst-last.oldLast <= coalesceGap {
			last.lines = append(last.lines, old[last.oldLast:h.oldFirst]...)
			last.lines = append(last.lines, h.lines...)
			last.oldLast = h.oldLast
			continue
		}
		merged = append(merged, h)
	}
	return merged
}

// joinLines terminates every line with \n so the diff works on whole
// lines only. Buffer lines never contain newlines themselves.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// splitLines undoes joinLines for one diff segment.
func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
