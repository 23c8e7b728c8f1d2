// The logger plugin prints every event the host dispatches. It declares no
// commands; it exists to observe.
package main

import (
	"fmt"
	"strings"

	"github.com/dark1zinn/drk/pkg/api"
	"github.com/dark1zinn/drk/pkg/styling"
)

var APIVersion = api.Version

func NewPlugin() api.Plugin { return &loggerPlugin{} }

type loggerPlugin struct {
	api.Base
}

func (p *loggerPlugin) Metadata() api.Descriptor {
	return api.Descriptor{
		Name:        "logger",
		Version:     "0.1.0",
		Author:      "dark1zinn",
		Description: "Logs events to console",
		Essential:   false,
	}
}

func (p *loggerPlugin) HandleEvent(ev api.SystemEvent, _ api.Context) error {
	tag := styling.Dim("[logger]")
	switch ev := ev.(type) {
	case api.Startup:
		fmt.Println(tag, "system is starting up")
	case api.PreCommand:
		fmt.Printf("%s about to run %s (%s)\n",
			tag, styling.Primary(ev.Name), styling.Dim(strings.Join(ev.Args, " ")))
	case api.PostCommand:
		status := styling.Success("success")
		if !ev.Success {
			status = styling.Warning("failed")
		}
		fmt.Printf("%s command %s completed: %s\n", tag, styling.Primary(ev.Name), status)
	case api.ExecuteCommand:
		fmt.Printf("%s executing %s from plugin %s\n",
			tag, styling.Primary(ev.Matches.CommandName), styling.Warning(ev.PluginName))
	case api.Custom:
		fmt.Printf("%s intercepted event %s from %s\n",
			tag, styling.Primary(ev.Name), styling.Warning(ev.Source))
	}
	return nil
}

func main() {}
