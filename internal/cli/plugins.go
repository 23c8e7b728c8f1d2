package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dark1zinn/drk/pkg/styling"
)

// newPluginsCommand lists the loaded plugins with their state.
func newPluginsCommand(c *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List loaded plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := c.Registry.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styling.Dim("no plugins loaded"))
				return nil
			}
			for _, e := range entries {
				state := styling.Success("enabled")
				if !e.Enabled {
					state = styling.Dim("disabled")
				}
				tag := ""
				if e.Descriptor.Essential {
					tag = " " + styling.Warning("[essential]")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s - %s%s\n",
					state,
					styling.Primary(e.Descriptor.Name),
					styling.Dim("v"+e.Descriptor.Version),
					styling.Dim(e.Descriptor.Author),
					e.Descriptor.Description,
					tag,
				)
			}
			return nil
		},
	}
}
