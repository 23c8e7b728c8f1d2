package host

import (
	"errors"
	"fmt"

	"github.com/dark1zinn/drk/pkg/api"
)

// maxDrainPasses bounds how many queued-emission rounds one FireEvent call
// may run before the host declares an emission cycle and drops the rest.
const maxDrainPasses = 8

// ErrEmitCycle is returned when plugins keep emitting events from inside
// their handlers past the drain bound.
var ErrEmitCycle = errors.New("event emission cycle detected")

// DispatchReport records, per plugin, the handler error returned for the
// top-level event of one FireEvent call. Queued follow-up events are
// delivered but not reported here.
type DispatchReport struct {
	Failed map[string]error
}

// Succeeded reports whether the named plugin handled the event without error.
// Plugins that were not delivered the event (disabled, unknown) count as
// succeeded; only an actual handler failure flips this.
func (d *DispatchReport) Succeeded(plugin string) bool {
	if d == nil {
		return true
	}
	return d.Failed[plugin] == nil
}

// FireEvent delivers ev to every enabled entry in registration order, each
// through a context scoped to that single call. One handler's failure never
// blocks delivery to the next entry; failures are logged and collected in the
// report. Events emitted during delivery are queued and drained in follow-up
// passes after the current pass fully returns, bounded by maxDrainPasses.
func (r *Registry) FireEvent(ev api.SystemEvent) (*DispatchReport, error) {
	report := &DispatchReport{Failed: make(map[string]error)}
	r.deliver(ev, report)

	for pass := 0; len(r.pending) > 0; pass++ {
		if pass >= maxDrainPasses {
			dropped := len(r.pending)
			r.pending = nil
			return report, fmt.Errorf("%w: %d event(s) dropped after %d drain passes",
				ErrEmitCycle, dropped, maxDrainPasses)
		}
		queued := r.pending
		r.pending = nil
		for _, qev := range queued {
			r.deliver(qev, nil)
		}
	}
	return report, nil
}

// deliver runs one synchronous delivery pass. Each plugin call runs to
// completion before the next begins; there is no timeout, a blocking handler
// blocks the host.
func (r *Registry) deliver(ev api.SystemEvent, report *DispatchReport) {
	for _, e := range r.entries {
		if !e.Enabled {
			continue
		}
		ctx := &pluginContext{name: e.Descriptor.Name, registry: r}
		if err := e.instance.HandleEvent(ev, ctx); err != nil {
			r.log.Error("plugin event handler failed",
				"plugin", e.Descriptor.Name, "event", ev.Kind(), "err", err)
			if report != nil {
				report.Failed[e.Descriptor.Name] = err
			}
		}
	}
}
