package api

// SystemEvent is the closed set of event shapes the host dispatches. The only
// open escape hatch is Custom, whose payload the host never inspects.
type SystemEvent interface {
	// Kind is a stable identifier for the event shape, used in logs.
	Kind() string

	systemEvent()
}

// Startup fires exactly once, before any command is parsed.
type Startup struct{}

func (Startup) Kind() string { return "startup" }
func (Startup) systemEvent() {}

// PreCommand fires once per invocation, before typed extraction, carrying the
// raw unparsed argument tokens.
type PreCommand struct {
	Name string
	Args []string
}

func (PreCommand) Kind() string { return "pre_command" }
func (PreCommand) systemEvent() {}

// PostCommand fires once per invocation, after the owning plugin's handler
// returned. Success reflects whether that handler returned without error.
type PostCommand struct {
	Name    string
	Success bool
}

func (PostCommand) Kind() string { return "post_command" }
func (PostCommand) systemEvent() {}

// ExecuteCommand fires once per invocation, after typed extraction. Every
// enabled plugin receives it; a well-behaved handler acts only when
// PluginName equals its own declared name.
type ExecuteCommand struct {
	PluginName string
	Matches    Matches
}

func (ExecuteCommand) Kind() string { return "execute_command" }
func (ExecuteCommand) systemEvent() {}

// Payload is an opaque value tagged with a nominal type identifier. Consumers
// must check Type before interpreting Value; the bus carries it untouched.
type Payload struct {
	Type  string
	Value any
}

// Custom is a plugin-to-plugin event. Interpretation of Name and Payload is a
// private agreement between the emitting and consuming plugins, documented
// out-of-band (e.g. "http fires request with payload shape HttpRequest").
type Custom struct {
	Source  string
	Name    string
	Payload *Payload
}

func (Custom) Kind() string { return "custom" }
func (Custom) systemEvent() {}
