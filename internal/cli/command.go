package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dark1zinn/drk/internal/host"
	"github.com/dark1zinn/drk/pkg/api"
)

// newPluginCommand turns one declared command schema into a cobra subcommand.
// Value extraction follows the schema contract: Boolean args become presence
// flags ("true" only when passed), String/Integer/Float become typed value
// options stringified into the matches, Positional args bind unnamed tokens
// in declaration order. Absent optional args stay absent from the matches.
func newPluginCommand(c *Container, binding host.CommandBinding) *cobra.Command {
	schema := binding.Command

	var positionals []api.Arg
	for _, arg := range schema.Args {
		if arg.Type == api.ArgPositional {
			positionals = append(positionals, arg)
		}
	}
	requiredPositionals := 0
	for _, arg := range positionals {
		if arg.Required {
			requiredPositionals++
		}
	}

	cmd := &cobra.Command{
		Use:   usageLine(schema, positionals),
		Short: schema.Description,
		Args:  cobra.RangeArgs(requiredPositionals, len(positionals)),
	}

	for _, arg := range schema.Args {
		switch arg.Type {
		case api.ArgString:
			cmd.Flags().String(arg.Name, "", arg.Description)
		case api.ArgInteger:
			cmd.Flags().Int64(arg.Name, 0, arg.Description)
		case api.ArgFloat:
			cmd.Flags().Float64(arg.Name, 0, arg.Description)
		case api.ArgBoolean:
			cmd.Flags().Bool(arg.Name, false, arg.Description)
		case api.ArgPositional:
			// Bound through cmd.Args above.
		}
		if arg.Required && arg.Type != api.ArgPositional && arg.Type != api.ArgBoolean {
			_ = cmd.MarkFlagRequired(arg.Name)
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		reg := c.Registry

		if _, err := reg.FireEvent(api.PreCommand{Name: schema.Name, Args: c.rawArgs}); err != nil {
			c.Log.Error("pre-command dispatch failed", "command", schema.Name, "err", err)
		}

		matches := extractMatches(schema, cmd.Flags(), args)

		report, err := reg.FireEvent(api.ExecuteCommand{
			PluginName: binding.PluginName,
			Matches:    matches,
		})
		if err != nil {
			c.Log.Error("command dispatch failed", "command", schema.Name, "err", err)
		}
		success := err == nil && report.Succeeded(binding.PluginName)

		if _, err := reg.FireEvent(api.PostCommand{Name: schema.Name, Success: success}); err != nil {
			c.Log.Error("post-command dispatch failed", "command", schema.Name, "err", err)
		}

		// Plugin failures are reported through PostCommand and the logs;
		// they never kill the host process.
		return nil
	}

	return cmd
}

// extractMatches resolves flag and positional values into the normalized
// text-only matches map.
func extractMatches(schema api.Command, flags *pflag.FlagSet, args []string) api.Matches {
	matches := api.Matches{
		CommandName: schema.Name,
		Args:        make(map[string]string),
	}

	positionalIndex := 0
	for _, arg := range schema.Args {
		switch arg.Type {
		case api.ArgBoolean:
			if v, err := flags.GetBool(arg.Name); err == nil && v {
				matches.Args[arg.Name] = "true"
			}
		case api.ArgString:
			if flags.Changed(arg.Name) {
				v, _ := flags.GetString(arg.Name)
				matches.Args[arg.Name] = v
			}
		case api.ArgInteger:
			if flags.Changed(arg.Name) {
				v, _ := flags.GetInt64(arg.Name)
				matches.Args[arg.Name] = strconv.FormatInt(v, 10)
			}
		case api.ArgFloat:
			if flags.Changed(arg.Name) {
				v, _ := flags.GetFloat64(arg.Name)
				matches.Args[arg.Name] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		case api.ArgPositional:
			if positionalIndex < len(args) {
				matches.Args[arg.Name] = args[positionalIndex]
				positionalIndex++
			}
		}
	}
	return matches
}

func usageLine(schema api.Command, positionals []api.Arg) string {
	var b strings.Builder
	b.WriteString(schema.Name)
	for _, arg := range positionals {
		if arg.Required {
			fmt.Fprintf(&b, " <%s>", arg.Name)
		} else {
			fmt.Fprintf(&b, " [%s]", arg.Name)
		}
	}
	return b.String()
}
