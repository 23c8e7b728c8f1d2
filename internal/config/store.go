// Package config holds the host configuration document: one settings table
// per plugin, keyed by plugin name, persisted as TOML at a per-user path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// EnabledKey is the reserved per-plugin key controlling the enable decision
// for non-essential plugins.
const EnabledKey = "enabled"

// Store is the in-memory configuration: plugin name -> settings table. It is
// loaded once at process start, mutated only through plugin contexts during
// dispatch, and saved after the run.
type Store struct {
	path string
	data map[string]map[string]any
}

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/drk/config.toml on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "drk", "config.toml"), nil
}

// Load reads the document at path. A missing or malformed file yields an
// empty store rather than failing the process; the returned error, if any, is
// advisory (the parse failure) and the store is always usable.
func Load(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]map[string]any)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	if err := toml.Unmarshal(raw, &s.data); err != nil {
		s.data = make(map[string]map[string]any)
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]map[string]any)
	}
	return s, nil
}

// Path returns where Save will write.
func (s *Store) Path() string { return s.path }

// Table returns the settings table for the named plugin, creating it on
// first access. The returned map is live.
func (s *Store) Table(name string) map[string]any {
	t, ok := s.data[name]
	if !ok {
		t = make(map[string]any)
		s.data[name] = t
	}
	return t
}

// Enabled reports the reserved `enabled` value for the named plugin. The
// second return is false when the table, the key, or a proper boolean is
// missing, in which case the caller applies the enabled-by-default rule.
func (s *Store) Enabled(name string) (bool, bool) {
	t, ok := s.data[name]
	if !ok {
		return false, false
	}
	v, ok := t[EnabledKey]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		return false, false
	}
	return b, true
}

// Save writes the document back to its path, creating parent directories as
// needed. A store loaded with an empty path is in-memory only.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
