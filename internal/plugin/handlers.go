package plugin

import (
	"fmt"

	"github.com/neovim/go-client/nvim"

	"github.com/pamfold/pamfold/internal/log"
)

// register wires the notification handlers. Handlers only convert
// arguments and hand the event to the loop goroutine; the parse state
// belongs to that goroutine alone.
func (p *Plugin) register() error {
	handlers := []struct {
		name string
		fn   any
	}{
		{"nvim_buf_lines_event", p.onLines},
		{"nvim_buf_changedtick_event", p.onChangedTick},
		{"nvim_buf_detach_event", p.onDetach},
		{"RefreshFolds", p.onRefreshFolds},
		{"HighlightRegion", p.onHighlightRegion},
		{"Quit", p.onQuit},
	}
	for _, h := range handlers {
		if err := p.client.RegisterHandler(h.name, h.fn); err != nil {
			return fmt.Errorf("registering %s handler: %w", h.name, err)
		}
	}
	return nil
}

func (p *Plugin) onLines(buf nvim.Buffer, tick any, first, last int64, linedata []string, more bool) {
	p.push(LinesEvent{
		Buf:         buf,
		Changedtick: asInt64(tick),
		First:       first,
		Last:        last,
		Linedata:    linedata,
		More:        more,
	})
}

func (p *Plugin) onChangedTick(buf nvim.Buffer, tick any) {
	p.push(ChangedTickEvent{Buf: buf, Changedtick: asInt64(tick)})
}

func (p *Plugin) onDetach(buf nvim.Buffer) {
	p.push(DetachEvent{Buf: buf})
}

func (p *Plugin) onRefreshFolds() {
	p.push(RefreshFolds{})
}

func (p *Plugin) onHighlightRegion(first, last int64) {
	p.push(HighlightRegion{First: first, Last: last})
}

func (p *Plugin) onQuit() {
	p.push(Quit{})
}

// push delivers an event to the loop, giving up once shutdown started
// so a dying loop cannot deadlock the serve goroutine.
func (p *Plugin) push(ev any) {
	select {
	case p.events <- ev:
	case <-p.done:
		log.Debug(log.CatRPC, "Dropped event after shutdown", "session", p.session)
	}
}

// asInt64 widens the changedtick argument, which arrives as nil for
// changes the editor applied on the plugin's behalf.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}
