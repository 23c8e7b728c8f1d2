package host

import (
	"fmt"
	goplugin "plugin"
)

// ModuleHandle is the host's grip on one loaded native module. It is a small
// explicit interface instead of a direct dependency on the runtime loader so
// the lifetime rules stay testable: an Entry must release its plugin instance
// strictly before closing the handle, because on backends that actually unmap,
// the module's code backs the instance.
type ModuleHandle interface {
	// Lookup resolves an exported symbol by name.
	Lookup(symbol string) (any, error)

	// Close releases the handle. Called exactly once, after the instance
	// produced by this module has been dropped.
	Close() error
}

// OpenFunc opens the native module at path. The loader takes it as an
// injection point; production wiring uses OpenSharedObject.
type OpenFunc func(path string) (ModuleHandle, error)

// OpenSharedObject opens a shared object with the Go runtime loader.
func OpenSharedObject(path string) (ModuleHandle, error) {
	mod, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	return &sharedObject{mod: mod}, nil
}

type sharedObject struct {
	mod *goplugin.Plugin
}

func (s *sharedObject) Lookup(symbol string) (any, error) {
	sym, err := s.mod.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// Close drops the host's reference. The Go runtime keeps a loaded module
// mapped for the life of the process, so there is nothing to unmap here; the
// instance-before-handle ordering is still enforced by Entry so that
// alternative backends (and the tests that stand in for them) stay correct.
func (s *sharedObject) Close() error {
	s.mod = nil
	return nil
}
