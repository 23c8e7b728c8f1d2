// Package api defines the contract between the drk host and its plugins:
// plugin metadata, the command schema a plugin declares, the event taxonomy
// the host dispatches, and the context a plugin receives on every call.
//
// Plugins are compiled with -buildmode=plugin and must export a constructor
// matching EntrySymbol. The package is kept free of third-party imports so a
// plugin author only pulls in the host API, nothing else.
package api

// Version is the plugin API version. A module may export it under
// VersionSymbol; when present the host refuses to load a module built against
// a different version instead of discovering the mismatch at dispatch time.
const Version uint32 = 1

const (
	// EntrySymbol is the exported constructor every plugin module must
	// provide. Its Go type must be exactly func() api.Plugin.
	EntrySymbol = "NewPlugin"

	// VersionSymbol optionally names an exported `var APIVersion uint32`.
	VersionSymbol = "APIVersion"
)

// Descriptor identifies a plugin. It is read once at load time and treated as
// immutable afterwards; Name is the registry key and must be unique.
type Descriptor struct {
	Name        string
	Version     string
	Author      string
	Description string

	// Essential plugins cannot be disabled through configuration.
	Essential bool
}

// ArgType tags how a command argument is presented on the CLI surface.
type ArgType int

const (
	ArgString ArgType = iota
	ArgInteger
	ArgFloat
	ArgBoolean
	// ArgPositional is a single unnamed token, bound by declaration order.
	ArgPositional
)

func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgInteger:
		return "integer"
	case ArgFloat:
		return "float"
	case ArgBoolean:
		return "boolean"
	case ArgPositional:
		return "positional"
	default:
		return "unknown"
	}
}

// Arg describes one argument of a declared command.
type Arg struct {
	Name        string
	Description string
	Required    bool
	Type        ArgType
}

// Command describes a CLI command a plugin wants the host to expose. It is
// passive data: the host builds the actual flag grammar from it, the plugin
// never touches the argument parser.
type Command struct {
	Name        string
	Description string
	Args        []Arg
}

// Matches carries the resolved arguments of one command invocation. Values
// are normalized to text at this layer. An optional argument the user did not
// supply is simply absent from Args, never present with an empty string.
type Matches struct {
	CommandName string
	Args        map[string]string
}

// Get returns the resolved value for name and whether it was supplied.
func (m Matches) Get(name string) (string, bool) {
	v, ok := m.Args[name]
	return v, ok
}

// GetOr returns the resolved value for name, or fallback if absent.
func (m Matches) GetOr(name, fallback string) string {
	if v, ok := m.Args[name]; ok {
		return v
	}
	return fallback
}

// Context is the per-call capability object handed to a plugin. It scopes the
// plugin to its own configuration namespace and lets it request emission of
// further events. Emitted events are queued by the host and dispatched after
// the current delivery pass returns; they are never delivered re-entrantly.
type Context interface {
	// PluginName is the name the receiving plugin is registered under.
	PluginName() string

	// Settings returns the plugin's own settings table. The map is live:
	// mutations are visible to later calls and persisted after the run.
	Settings() map[string]any

	// DecodeSettings decodes the settings table into a typed struct.
	DecodeSettings(out any) error

	// Emit queues ev for dispatch after the current pass completes.
	Emit(ev SystemEvent)
}

// Plugin is the capability set every extension must implement.
//
// Metadata must be pure. OnLoad runs once, only for enabled plugins, before
// any event is dispatched; OnUnload runs once when the entry is removed.
// HandleEvent receives every event fired while the plugin is enabled and must
// ignore event shapes it does not care about.
type Plugin interface {
	Metadata() Descriptor
	Commands() []Command
	OnLoad() error
	OnUnload() error
	HandleEvent(ev SystemEvent, ctx Context) error
}

// Base provides the optional parts of the Plugin interface with no-op
// defaults. Embed it and implement only Metadata, HandleEvent, and whatever
// else the plugin actually needs.
type Base struct{}

func (Base) Commands() []Command { return nil }
func (Base) OnLoad() error       { return nil }
func (Base) OnUnload() error     { return nil }
