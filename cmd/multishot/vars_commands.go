package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"multishot/internal/document"
)

func newVarsCommand(ctx *commandContext) *cobra.Command {
	varsCmd := &cobra.Command{
		Use:   "vars",
		Short: "Manage document variables",
	}

	varsCmd.AddCommand(newVarsListCommand(ctx))
	varsCmd.AddCommand(newVarsGetCommand(ctx))
	varsCmd.AddCommand(newVarsSetCommand(ctx))
	varsCmd.AddCommand(newVarsUnsetCommand(ctx))

	return varsCmd
}

func newVarsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the merged variable map used for template resolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}

			vars := doc.Vars()
			keys := make([]string, 0, len(vars))
			for key := range vars {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, key := range keys {
				source := "context"
				if _, ok := doc.Custom[key]; ok {
					source = "custom"
				}
				rows = append(rows, []string{key, orDash(vars[key]), source})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Variable", "Value", "Source"}, rows))
			return nil
		},
	}
}

func newVarsGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print one variable from the merged map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}
			value, ok := doc.Vars()[args[0]]
			if !ok {
				return fmt.Errorf("no variable %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// reservedVars are derived from the context and frame-range slots and
// cannot be set directly.
var reservedVars = map[string]bool{
	"project":     true,
	"ep":          true,
	"seq":         true,
	"shot":        true,
	"first_frame": true,
	"last_frame":  true,
}

func newVarsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name=value> [name=value ...]",
		Short: "Set custom document variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(func(doc *document.Document) error {
				for _, arg := range args {
					name, value, ok := strings.Cut(arg, "=")
					if !ok || name == "" {
						return fmt.Errorf("assignment %q must be name=value", arg)
					}
					if reservedVars[name] {
						return fmt.Errorf("%q is derived from the shot context; use switch", name)
					}
					doc.Custom[name] = value
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, value)
				}
				return nil
			})
		},
	}
}

func newVarsUnsetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <name> [name ...]",
		Short: "Remove custom document variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(func(doc *document.Document) error {
				for _, name := range args {
					if _, ok := doc.Custom[name]; !ok {
						return fmt.Errorf("no custom variable %q", name)
					}
					delete(doc.Custom, name)
					fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", name)
				}
				return nil
			})
		},
	}
}
