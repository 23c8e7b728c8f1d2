// Package cli builds the cobra command surface from the registry's merged
// command schemas. Plugins describe commands as passive data; this package is
// the only place that data meets an actual argument parser.
package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dark1zinn/drk/internal/config"
	"github.com/dark1zinn/drk/internal/host"
)

// Container holds the dependencies the CLI commands close over. It is built
// once in main and passed down; nothing here is an ambient singleton.
type Container struct {
	Registry *host.Registry
	Store    *config.Store
	Log      *log.Logger

	// rawArgs is the unparsed argv tail, surfaced to plugins on PreCommand.
	rawArgs []string
}

// NewRootCommand assembles the root command: one subcommand per declared
// plugin command, plus the host's own management commands.
func NewRootCommand(c *Container, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drk",
		Short: "drk - the plugin-based CLI tool",
		Long: `drk is a plugin host: every command it exposes is declared by a plugin
loaded from the plugin directory. The host mediates configuration access and
event delivery between plugins; it has no commands of its own beyond
introspection.`,
		Version:       version,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Parsed ahead of cobra in main; declared here so they show in help and
	// survive cobra's flag parsing.
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("plugin-dir", "", "Directory to scan for plugin modules")

	rootCmd.AddCommand(newPluginsCommand(c))
	for _, binding := range c.Registry.Commands() {
		rootCmd.AddCommand(newPluginCommand(c, binding))
	}

	return rootCmd
}

// Execute runs one CLI invocation against the already-populated registry.
func Execute(c *Container, argv []string, version string) error {
	c.rawArgs = argv
	rootCmd := NewRootCommand(c, version)
	rootCmd.SetArgs(argv)
	return rootCmd.Execute()
}
