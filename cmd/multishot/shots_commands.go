package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"multishot/internal/document"
	"multishot/internal/shot"
)

func newShotsCommand(ctx *commandContext) *cobra.Command {
	shotsCmd := &cobra.Command{
		Use:   "shots",
		Short: "Manage the document's shot navigation registry",
	}

	shotsCmd.AddCommand(newShotsListCommand(ctx))
	shotsCmd.AddCommand(newShotsAddCommand(ctx))
	shotsCmd.AddCommand(newShotsRemoveCommand(ctx))

	return shotsCmd
}

func newShotsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered shots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}

			shots := doc.Shots()
			if len(shots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No registered shots")
				return nil
			}
			currentID := doc.Context().ID()
			rows := make([][]string, 0, len(shots))
			for _, ref := range shots {
				marker := ""
				if ref.ID() == currentID {
					marker = "*"
				}
				rows = append(rows, []string{string(ref.ID()), ref.Project, ref.Episode, ref.Sequence, ref.Shot, marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Shot", "Project", "Episode", "Sequence", "Name", "Current"}, rows))
			return nil
		},
	}
}

func newShotsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <shot-id | project episode sequence shot>",
		Short: "Register a shot for navigation",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseShotArgs(args)
			if err != nil {
				return err
			}
			return ctx.withDocument(func(doc *document.Document) error {
				if !doc.AddShot(ref) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already registered\n", ref.ID())
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", ref.ID())
				return nil
			})
		},
	}
}

func newShotsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <shot-id>",
		Short: "Remove a shot from the navigation registry",
		Long: `Remove a registry entry. Ledger entries on read nodes are untouched:
a shot's versions survive removal and reappear if the shot is registered
again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(func(doc *document.Document) error {
				if !doc.RemoveShot(shot.ID(args[0])) {
					return fmt.Errorf("shot %q is not registered", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}
