package host

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dark1zinn/drk/pkg/api"
)

// pluginContext is the per-call capability object. It scopes one plugin, for
// one delivery, to its own config namespace and to queued event emission.
// Namespace scoping is enforced here: a plugin cannot reach another plugin's
// settings table through the API.
type pluginContext struct {
	name     string
	registry *Registry
}

var _ api.Context = (*pluginContext)(nil)

func (c *pluginContext) PluginName() string { return c.name }

func (c *pluginContext) Settings() map[string]any {
	return c.registry.store.Table(c.name)
}

func (c *pluginContext) DecodeSettings(out any) error {
	if err := mapstructure.Decode(c.registry.store.Table(c.name), out); err != nil {
		return fmt.Errorf("decode settings for %s: %w", c.name, err)
	}
	return nil
}

// Emit queues ev on the registry. Queued events are dispatched only after the
// in-flight delivery pass returns; re-entrant dispatch is never performed.
func (c *pluginContext) Emit(ev api.SystemEvent) {
	c.registry.pending = append(c.registry.pending, ev)
}
