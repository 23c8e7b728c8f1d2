// Package host implements the plugin host core: loading native modules into
// owned registry entries, building the merged command surface, and delivering
// system events to every enabled plugin.
package host

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dark1zinn/drk/internal/config"
	"github.com/dark1zinn/drk/pkg/api"
)

// ErrDuplicatePlugin is returned when a module declares a name that is
// already registered. The first registration wins; the later one is rejected.
var ErrDuplicatePlugin = errors.New("plugin name already registered")

// CommandBinding ties a declared command to the plugin that owns it.
type CommandBinding struct {
	PluginName string
	Command    api.Command
}

// Registry owns every loaded entry and the configuration store. It is the
// top-level host object, constructor-injected wherever it is needed, and it
// lives for the process lifetime. Single-threaded by design: loading,
// dispatch, and command handling all run on one logical thread, so no locking
// is involved.
type Registry struct {
	store *config.Store
	log   *log.Logger

	// entries preserves registration order; dispatch iterates it so
	// delivery order is deterministic and documented.
	entries []*Entry
	byName  map[string]*Entry

	// pending holds events emitted from inside an in-flight dispatch,
	// drained only after the current pass returns.
	pending []api.SystemEvent
}

// NewRegistry creates an empty registry around the given config store.
func NewRegistry(store *config.Store, logger *log.Logger) *Registry {
	return &Registry{
		store:  store,
		log:    logger,
		byName: make(map[string]*Entry),
	}
}

// Add registers an entry under its descriptor name. A name collision is
// rejected rather than silently overwriting the earlier entry.
func (r *Registry) Add(e *Entry) error {
	name := e.Descriptor.Name
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlugin, name)
	}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	return nil
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Len returns the number of registered entries.
func (r *Registry) Len() int { return len(r.entries) }

// Names returns plugin names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Descriptor.Name)
	}
	return names
}

// Entries returns the registered entries in registration order.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Store exposes the configuration store the registry owns.
func (r *Registry) Store() *config.Store { return r.store }

// Commands aggregates every enabled entry's declared commands into the merged
// command surface. Two plugins declaring the same command name is a
// configuration conflict: the first-registered declaration wins and the later
// one is dropped with a warning.
func (r *Registry) Commands() []CommandBinding {
	var bindings []CommandBinding
	owners := make(map[string]string)

	for _, e := range r.entries {
		if !e.Enabled {
			continue
		}
		for _, cmd := range e.instance.Commands() {
			if prior, taken := owners[cmd.Name]; taken {
				r.log.Warn("command name conflict, keeping first registration",
					"command", cmd.Name, "owner", prior, "rejected", e.Descriptor.Name)
				continue
			}
			owners[cmd.Name] = e.Descriptor.Name
			bindings = append(bindings, CommandBinding{
				PluginName: e.Descriptor.Name,
				Command:    cmd,
			})
		}
	}
	return bindings
}

// CommandOwner returns the plugin owning the named command.
func (r *Registry) CommandOwner(name string) (string, bool) {
	for _, b := range r.Commands() {
		if b.Command.Name == name {
			return b.PluginName, true
		}
	}
	return "", false
}

// Close removes every entry, in reverse registration order, running each
// plugin's OnUnload and then releasing its module handle. Per-entry failures
// are logged and joined; teardown always visits every entry.
func (r *Registry) Close() error {
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if err := e.close(); err != nil {
			r.log.Error("plugin teardown failed", "plugin", e.Descriptor.Name, "err", err)
			errs = append(errs, err)
		}
	}
	r.entries = nil
	r.byName = make(map[string]*Entry)
	return errors.Join(errs...)
}
