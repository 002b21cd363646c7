// Package foldview is the interactive terminal browser for a parsed
// deck: a fold tree on the left, the highlighted deck lines on the
// right and an optional log tail at the bottom.
package foldview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/pamfold/pamfold/internal/bufdata"
	"github.com/pamfold/pamfold/internal/card"
	"github.com/pamfold/pamfold/internal/log"
	"github.com/pamfold/pamfold/internal/watcher"
)

const (
	logPaneHeight = 5
	logTailCap    = 200
)

// Config configures the fold browser.
type Config struct {
	// Path is the deck file on disk, used for reloads and the header.
	Path string

	// Deck is the parsed deck the browser displays.
	Deck *bufdata.BufData

	// ContextLines keeps this many lines visible above a selected fold
	// when the deck pane follows the cursor.
	ContextLines int

	// Debounce enables the file watcher when positive. Zero runs the
	// browser without live reload.
	Debounce time.Duration
}

// deckChangedMsg signals that the watched deck file settled after a
// change on disk.
type deckChangedMsg struct{}

// Model is the bubbletea model for the fold browser.
type Model struct {
	deck         *bufdata.BufData
	path         string
	contextLines int

	keys KeyMap
	help help.Model

	viewport  viewport.Model
	roots     []*treeNode
	rows      []*treeNode
	cursor    int
	scrollTop int

	cards    int
	families int
	status   string

	logOpen  bool
	logLines []string
	listener *log.LogListener

	watcher *watcher.Watcher
	changes <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	width      int
	height     int
	treeWidth  int
	bodyHeight int
	ready      bool
}

// New creates a fold browser over an already parsed deck.
func New(cfg Config) (*Model, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		deck:         cfg.Deck,
		path:         cfg.Path,
		contextLines: max(cfg.ContextLines, 0),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		listener:     log.NewListener(ctx),
		ctx:          ctx,
		cancel:       cancel,
	}

	if cfg.Debounce > 0 {
		w, err := watcher.New(watcher.Config{Path: cfg.Path, Debounce: cfg.Debounce})
		if err != nil {
			cancel()
			return nil, err
		}
		changes, err := w.Start()
		if err != nil {
			w.Stop()
			cancel()
			return nil, err
		}
		m.watcher = w
		m.changes = changes
	}

	m.rebuildTree()
	return m, nil
}

// Close releases the watcher and the log listener. Call it after the
// program has exited.
func (m *Model) Close() error {
	m.cancel()
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.listenLogs())
}

// waitForChange arms a one-shot command for the next settled change of
// the deck file. Re-armed from Update after every reload.
func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case _, ok := <-m.changes:
			if !ok {
				return nil
			}
			return deckChangedMsg{}
		}
	}
}

func (m *Model) listenLogs() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case deckChangedMsg:
		m.reload()
		return m, m.waitForChange()
	case log.LogEvent:
		m.appendLog(msg.Payload)
		return m, m.listenLogs()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.ensureCursorVisible()
		m.syncViewport()
	case key.Matches(msg, m.keys.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
		m.ensureCursorVisible()
		m.syncViewport()
	case key.Matches(msg, m.keys.Expand):
		m.expandSelected()
	case key.Matches(msg, m.keys.Collapse):
		m.collapseSelected()
	case key.Matches(msg, m.keys.HalfDown):
		m.viewport.ScrollDown(m.viewport.Height / 2)
	case key.Matches(msg, m.keys.HalfUp):
		m.viewport.ScrollUp(m.viewport.Height / 2)
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	case key.Matches(msg, m.keys.Logs):
		m.logOpen = !m.logOpen
		m.layout()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return m, nil
}

// layout recomputes the pane sizes after a resize or a footer change
// and re-renders the deck pane into the viewport.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.treeWidth = clamp(m.width*30/100, 24, 40)

	footer := 1
	if m.help.ShowAll {
		footer = 4
	}
	logH := 0
	if m.logOpen {
		logH = logPaneHeight + 1
	}
	m.bodyHeight = max(m.height-1-footer-logH, 3)

	bodyWidth := max(m.width-m.treeWidth-1, 10)
	if !m.ready {
		m.viewport = viewport.New(bodyWidth, m.bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = bodyWidth
		m.viewport.Height = m.bodyHeight
	}

	m.renderDeck()
	m.ensureCursorVisible()
	m.syncViewport()
}

// rebuildTree regenerates the fold tree from the deck, keeping the
// cursor inside the new row range.
func (m *Model) rebuildTree() {
	entries := m.deck.AllFolds()
	m.cards, m.families = 0, 0
	for _, e := range entries {
		if e.Level > 1 {
			m.families++
		} else {
			m.cards++
		}
	}
	m.roots = buildTree(entries)
	m.rows = visibleRows(m.roots)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// reload re-reads the deck file and re-parses it in place. A failed
// read or parse keeps the previous deck and reports in the header.
func (m *Model) reload() {
	buf, err := os.ReadFile(m.path)
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		log.ErrorErr(log.CatUI, "Reload failed", err, "file", m.path)
		return
	}
	if err := m.deck.ParseBytes(buf); err != nil {
		m.status = fmt.Sprintf("parse failed: %v", err)
		log.ErrorErr(log.CatUI, "Parse failed", err, "file", m.path)
		return
	}
	m.status = ""
	log.Info(log.CatUI, "Deck reloaded", "file", m.path, "lines", m.deck.LineCount())
	m.rebuildTree()
	m.renderDeck()
	m.ensureCursorVisible()
	m.syncViewport()
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, strings.TrimRight(line, "\n"))
	if len(m.logLines) > logTailCap {
		m.logLines = m.logLines[len(m.logLines)-logTailCap:]
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.ensureCursorVisible()
	m.syncViewport()
}

// ensureCursorVisible scrolls the tree pane window so the cursor row
// stays on screen.
func (m *Model) ensureCursorVisible() {
	if m.bodyHeight <= 0 {
		return
	}
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	}
	if m.cursor >= m.scrollTop+m.bodyHeight {
		m.scrollTop = m.cursor - m.bodyHeight + 1
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
}

// syncViewport scrolls the deck pane to the selected fold, keeping the
// configured context above it.
func (m *Model) syncViewport() {
	if !m.ready || len(m.rows) == 0 {
		return
	}
	m.viewport.SetYOffset(max(m.rows[m.cursor].entry.Start-1-m.contextLines, 0))
}

func (m *Model) expandSelected() {
	if len(m.rows) == 0 {
		return
	}
	node := m.rows[m.cursor]
	if node.family() && !node.expanded {
		node.expanded = true
		m.rebuildRows(node)
	}
}

// collapseSelected collapses the selected family, or jumps from a
// child card to its family and collapses that.
func (m *Model) collapseSelected() {
	if len(m.rows) == 0 {
		return
	}
	node := m.rows[m.cursor]
	if node.family() && node.expanded {
		node.expanded = false
		m.rebuildRows(node)
		return
	}
	if node.parent != nil {
		node.parent.expanded = false
		m.rebuildRows(node.parent)
	}
}

// rebuildRows re-flattens the tree and moves the cursor to keep.
func (m *Model) rebuildRows(keep *treeNode) {
	m.rows = visibleRows(m.roots)
	for i, n := range m.rows {
		if n == keep {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.ensureCursorVisible()
	m.syncViewport()
}

// renderDeck renders every deck line with its highlight spans into the
// viewport content. Lines without spans are comments or blanks and
// render muted.
func (m *Model) renderDeck() {
	if !m.ready {
		return
	}
	count := m.deck.LineCount()
	byLine := make(map[int][]card.Span)
	for _, h := range m.deck.HighlightsIn(0, count) {
		byLine[h.Line] = append(byLine[h.Line], h.Span)
	}

	gutterW := max(len(strconv.Itoa(count)), 3)
	rows := make([]string, 0, count)
	for i := 0; i < count; i++ {
		gutter := gutterStyle.Render(fmt.Sprintf("%*d ", gutterW, i+1))
		row := gutter + renderDeckLine(string(m.deck.LineText(i)), byLine[i])
		rows = append(rows, ansi.Truncate(row, m.viewport.Width, ""))
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))
}

// renderDeckLine styles the highlight spans of one line. Span offsets
// are byte offsets and may reach past a line the editor truncated, so
// they are clipped to the text.
func renderDeckLine(text string, spans []card.Span) string {
	if len(spans) == 0 {
		return mutedStyle.Render(text)
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		start := min(s.Start, len(text))
		end := min(s.End, len(text))
		if start < pos {
			start = pos
		}
		if start > pos {
			b.WriteString(text[pos:start])
		}
		if end > start {
			b.WriteString(groupStyle(s.Group).Render(text[start:end]))
		}
		if end > pos {
			pos = end
		}
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading"
	}
	sections := []string{
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderTree(), " ", m.viewport.View()),
	}
	if m.logOpen {
		sections = append(sections, m.renderLogs())
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	header := headerStyle.Render(filepath.Base(m.path))
	info := fmt.Sprintf("%d lines, %d cards, %d families",
		m.deck.LineCount(), m.cards, m.families)
	header += "  " + mutedStyle.Render(info)
	if m.status != "" {
		header += "  " + statusErrStyle.Render(m.status)
	}
	return ansi.Truncate(header, m.width, "")
}

// renderTree renders the visible window of fold rows, padded to the
// body height so the panes keep their size.
func (m *Model) renderTree() string {
	lines := make([]string, 0, m.bodyHeight)
	if len(m.rows) == 0 {
		lines = append(lines, mutedStyle.Render("no folds"))
	}
	end := min(m.scrollTop+m.bodyHeight, len(m.rows))
	for i := m.scrollTop; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}
	for len(lines) < m.bodyHeight {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(m.treeWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(i int) string {
	node := m.rows[i]

	marker := "  "
	if i == m.cursor {
		marker = "> "
	}
	var connector string
	switch {
	case node.family() && node.expanded:
		connector = "▾ "
	case node.family():
		connector = "▸ "
	case node.parent != nil && node.last:
		connector = " └─ "
	case node.parent != nil:
		connector = " ├─ "
	default:
		connector = "  "
	}

	rng := fmt.Sprintf("%d-%d", node.entry.Start, node.entry.End)
	avail := m.treeWidth - len(marker) - ansi.StringWidth(connector) - len(rng) - 1
	if avail < 4 {
		avail = 4
	}
	label := truncate.StringWithTail(strings.TrimSpace(node.entry.Text), uint(avail), "...")
	pad := max(avail-ansi.StringWidth(label), 0)

	styled := label
	switch {
	case i == m.cursor:
		styled = selectionStyle.Render(label)
	case node.family():
		styled = familyStyle.Render(label)
	}
	if i == m.cursor {
		marker = selectionStyle.Render(marker)
	}
	return marker + connector + styled + strings.Repeat(" ", pad+1) + mutedStyle.Render(rng)
}

// renderLogs renders the divider and the last few log lines, padded to
// a fixed height.
func (m *Model) renderLogs() string {
	rows := make([]string, 0, logPaneHeight+1)
	rows = append(rows, dividerStyle.Render(strings.Repeat("─", max(m.width, 1))))

	lines := m.logLines
	if len(lines) > logPaneHeight {
		lines = lines[len(lines)-logPaneHeight:]
	}
	if len(lines) == 0 {
		rows = append(rows, mutedStyle.Render("log tail is empty"))
	}
	for _, l := range lines {
		rows = append(rows, runewidth.Truncate(l, max(m.width-1, 1), "..."))
	}
	for len(rows) < logPaneHeight+1 {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
