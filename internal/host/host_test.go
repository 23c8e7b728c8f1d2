package host

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dark1zinn/drk/internal/config"
	"github.com/dark1zinn/drk/pkg/api"
)

// recorder collects lifecycle observations in order, shared across the fake
// plugins and module handles of one test.
type recorder struct {
	events []string
}

func (r *recorder) record(event string) {
	r.events = append(r.events, event)
}

// fakePlugin implements api.Plugin with scriptable behavior. The id is used
// for recording so two instances with colliding descriptor names stay
// distinguishable.
type fakePlugin struct {
	id       string
	desc     api.Descriptor
	commands []api.Command

	onLoadErr   error
	onUnloadErr error
	handleErr   error
	onEvent     func(ev api.SystemEvent, ctx api.Context) error

	rec     *recorder
	handled []api.SystemEvent
}

func (p *fakePlugin) Metadata() api.Descriptor { return p.desc }
func (p *fakePlugin) Commands() []api.Command  { return p.commands }

func (p *fakePlugin) OnLoad() error {
	if p.rec != nil {
		p.rec.record("load:" + p.id)
	}
	return p.onLoadErr
}

func (p *fakePlugin) OnUnload() error {
	if p.rec != nil {
		p.rec.record("unload:" + p.id)
	}
	return p.onUnloadErr
}

func (p *fakePlugin) HandleEvent(ev api.SystemEvent, ctx api.Context) error {
	p.handled = append(p.handled, ev)
	if p.rec != nil {
		p.rec.record(p.id + ":" + ev.Kind())
	}
	if p.onEvent != nil {
		return p.onEvent(ev, ctx)
	}
	return p.handleErr
}

// fakeHandle is a ModuleHandle test double that records when it is closed.
type fakeHandle struct {
	id      string
	symbols map[string]any
	rec     *recorder

	closed   bool
	closeErr error
}

func (h *fakeHandle) Lookup(symbol string) (any, error) {
	if sym, ok := h.symbols[symbol]; ok {
		return sym, nil
	}
	return nil, fmt.Errorf("symbol %q not found in module %s", symbol, h.id)
}

func (h *fakeHandle) Close() error {
	h.closed = true
	if h.rec != nil {
		h.rec.record("close:" + h.id)
	}
	return h.closeErr
}

// moduleFor wraps a plugin in a handle exporting the standard entry symbol.
func moduleFor(id string, p api.Plugin, rec *recorder) *fakeHandle {
	return &fakeHandle{
		id:  id,
		rec: rec,
		symbols: map[string]any{
			api.EntrySymbol: func() api.Plugin { return p },
		},
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	store, err := config.Load("") // in-memory
	if err != nil {
		t.Fatalf("empty store should never fail: %v", err)
	}
	return NewRegistry(store, testLogger())
}

func plainPlugin(name string) *fakePlugin {
	return &fakePlugin{
		id: name,
		desc: api.Descriptor{
			Name:    name,
			Version: "1.0.0",
			Author:  "tests",
		},
	}
}
