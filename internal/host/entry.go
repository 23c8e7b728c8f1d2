package host

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dark1zinn/drk/pkg/api"
)

// Entry pairs exactly one plugin instance with the native module that
// produced it. The entry exclusively owns both; nothing else closes the
// handle or calls the instance's lifecycle hooks.
type Entry struct {
	// ID distinguishes this load in logs, independent of the plugin name.
	ID string

	// Descriptor is cached at load time and immutable afterwards.
	Descriptor api.Descriptor

	// Enabled is derived at load time: essential plugins are always
	// enabled, everything else follows the config store.
	Enabled bool

	instance api.Plugin
	handle   ModuleHandle
}

// NewEntry bundles a plugin instance with its module handle.
func NewEntry(desc api.Descriptor, instance api.Plugin, handle ModuleHandle, enabled bool) *Entry {
	return &Entry{
		ID:         uuid.NewString(),
		Descriptor: desc,
		Enabled:    enabled,
		instance:   instance,
		handle:     handle,
	}
}

// close tears the entry down. Order is load-bearing: OnUnload runs first (for
// entries whose OnLoad ran, i.e. enabled ones), then the instance is dropped,
// and only then is the module handle closed. The handle must outlive the
// instance it produced; an OnUnload failure does not change the order.
func (e *Entry) close() error {
	var errs []error

	if e.instance != nil {
		if e.Enabled {
			if err := e.instance.OnUnload(); err != nil {
				errs = append(errs, fmt.Errorf("plugin %s: on_unload: %w", e.Descriptor.Name, err))
			}
		}
		e.instance = nil
	}

	if e.handle != nil {
		if err := e.handle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: close module: %w", e.Descriptor.Name, err))
		}
		e.handle = nil
	}

	return errors.Join(errs...)
}
