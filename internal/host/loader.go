package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/dark1zinn/drk/pkg/api"
)

// moduleExtensions marks the platform dynamic-module suffixes a scan
// considers. All three are accepted everywhere; non-matching files are
// ignored.
var moduleExtensions = map[string]bool{
	".so":    true,
	".dylib": true,
	".dll":   true,
}

// Loader turns candidate files into registered entries. Open is swappable so
// loading is testable without building shared objects.
type Loader struct {
	registry *Registry
	open     OpenFunc
	log      *log.Logger
}

// NewLoader creates a loader registering into reg, backed by the runtime
// module loader.
func NewLoader(reg *Registry, logger *log.Logger) *Loader {
	return &Loader{registry: reg, open: OpenSharedObject, log: logger}
}

// SetOpenFunc replaces the module opener. Test seam.
func (l *Loader) SetOpenFunc(open OpenFunc) { l.open = open }

// Scan walks dir recursively and attempts to load every file carrying a
// dynamic-module suffix. Each candidate is loaded independently: a bad file
// is reported and the scan continues. A missing directory is not an error.
// Returns the number of entries registered.
func (l *Loader) Scan(dir string) (int, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	loaded := 0
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			l.log.Debug("cannot access path during scan", "path", path, "err", err)
			return nil
		}
		if entry.IsDir() || !moduleExtensions[filepath.Ext(entry.Name())] {
			return nil
		}
		if err := l.Load(path); err != nil {
			l.log.Error("failed to load plugin", "path", path, "err", err)
			return nil
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("scan %s: %w", dir, err)
	}
	return loaded, nil
}

// Load opens the module at path, resolves the entry constructor, and
// registers the resulting plugin instance as an owned entry. On any failure
// after the module is open, the instance (if constructed) is dropped before
// the handle is closed.
func (l *Loader) Load(path string) error {
	handle, err := l.open(path)
	if err != nil {
		return err
	}

	if err := checkAPIVersion(handle); err != nil {
		closeQuietly(handle, l.log)
		return err
	}

	sym, err := handle.Lookup(api.EntrySymbol)
	if err != nil {
		closeQuietly(handle, l.log)
		return fmt.Errorf("missing entry symbol %q (not a drk plugin?): %w", api.EntrySymbol, err)
	}
	construct, ok := sym.(func() api.Plugin)
	if !ok {
		closeQuietly(handle, l.log)
		return fmt.Errorf("entry symbol %q has type %T, want func() api.Plugin", api.EntrySymbol, sym)
	}

	instance := construct()
	meta := instance.Metadata()
	if meta.Name == "" {
		instance = nil
		closeQuietly(handle, l.log)
		return errors.New("plugin reported an empty name")
	}

	if _, err := semver.NewVersion(meta.Version); err != nil {
		l.log.Warn("plugin version is not valid semver",
			"plugin", meta.Name, "version", meta.Version)
	}

	enabled := l.isEnabled(meta)
	if enabled {
		if err := instance.OnLoad(); err != nil {
			instance = nil
			closeQuietly(handle, l.log)
			return fmt.Errorf("plugin %s: on_load: %w", meta.Name, err)
		}
	}

	entry := NewEntry(meta, instance, handle, enabled)
	if err := l.registry.Add(entry); err != nil {
		// Fully constructed but rejected: run the normal teardown so the
		// instance is unloaded before the handle goes.
		if cerr := entry.close(); cerr != nil {
			l.log.Error("teardown of rejected plugin failed", "plugin", meta.Name, "err", cerr)
		}
		return err
	}

	l.log.Info("loaded plugin",
		"name", meta.Name, "version", meta.Version, "enabled", enabled, "id", entry.ID)
	return nil
}

// isEnabled applies the enable decision: essential plugins are always on,
// everything else follows the config store's `enabled` key, defaulting to
// enabled when the key is absent or unreadable.
func (l *Loader) isEnabled(meta api.Descriptor) bool {
	if meta.Essential {
		return true
	}
	if v, ok := l.registry.store.Enabled(meta.Name); ok {
		return v
	}
	return true
}

// checkAPIVersion enforces the optional version handshake. A module that does
// not export the symbol is accepted; one that exports a mismatching version
// is refused before its constructor ever runs.
func checkAPIVersion(handle ModuleHandle) error {
	sym, err := handle.Lookup(api.VersionSymbol)
	if err != nil {
		return nil
	}
	v, ok := sym.(*uint32)
	if !ok {
		return fmt.Errorf("version symbol %q has type %T, want *uint32", api.VersionSymbol, sym)
	}
	if *v != api.Version {
		return fmt.Errorf("plugin built against API version %d, host supports %d", *v, api.Version)
	}
	return nil
}

func closeQuietly(handle ModuleHandle, logger *log.Logger) {
	if err := handle.Close(); err != nil {
		logger.Debug("closing module handle failed", "err", err)
	}
}
