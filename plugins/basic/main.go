// The basic plugin provides the greet and echo commands. Build it as a
// shared object and drop it into the plugin directory:
//
//	go build -buildmode=plugin -o basic.so ./plugins/basic
package main

import (
	"errors"
	"fmt"

	"github.com/dark1zinn/drk/pkg/api"
	"github.com/dark1zinn/drk/pkg/styling"
)

// APIVersion is resolved by the host before the constructor runs.
var APIVersion = api.Version

// NewPlugin is the module entry point the drk host resolves.
func NewPlugin() api.Plugin { return &basicPlugin{} }

type basicPlugin struct {
	api.Base
}

func (p *basicPlugin) Metadata() api.Descriptor {
	return api.Descriptor{
		Name:        "basic",
		Version:     "0.1.0",
		Author:      "dark1zinn",
		Description: "A basic plugin with greet and echo commands",
		Essential:   false,
	}
}

func (p *basicPlugin) Commands() []api.Command {
	return []api.Command{
		{
			Name:        "greet",
			Description: "Greet someone by name",
			Args: []api.Arg{{
				Name:        "name",
				Description: "The name to greet",
				Required:    false,
				Type:        api.ArgString,
			}},
		},
		{
			Name:        "echo",
			Description: "Echo back a message",
			Args: []api.Arg{{
				Name:        "message",
				Description: "The message to echo",
				Required:    true,
				Type:        api.ArgString,
			}},
		},
	}
}

func (p *basicPlugin) OnLoad() error {
	fmt.Println(styling.Dim("[basic]"), "loaded and ready")
	return nil
}

func (p *basicPlugin) HandleEvent(ev api.SystemEvent, ctx api.Context) error {
	switch ev := ev.(type) {
	case api.Startup:
		fmt.Println(styling.Dim("[basic]"), "the app is starting")
	case api.ExecuteCommand:
		if ev.PluginName == "basic" {
			return p.execute(ev.Matches, ctx)
		}
	}
	return nil
}

func (p *basicPlugin) execute(matches api.Matches, ctx api.Context) error {
	switch matches.CommandName {
	case "greet":
		name := matches.GetOr("name", "World")
		prefix := "Hello"
		if v, ok := ctx.Settings()["greeting_prefix"].(string); ok && v != "" {
			prefix = v
		}
		fmt.Printf("%s %s %s%s\n",
			styling.Success(styling.IconSuccess()),
			styling.Success(prefix),
			styling.Primary(name),
			styling.Success("!"))
		ctx.Emit(api.Custom{Source: "basic", Name: "greeted"})
	case "echo":
		message, ok := matches.Get("message")
		if !ok {
			return errors.New("message argument is required")
		}
		fmt.Printf("%s %s\n", styling.Success(styling.IconInfo()), styling.Primary(message))
	default:
		return fmt.Errorf("unknown command %q", matches.CommandName)
	}
	return nil
}

func main() {}
