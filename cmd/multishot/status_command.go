package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the document's current shot, frame range, and nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := doc.Context()
			if current.IsZero() {
				fmt.Fprintln(out, "Current shot: none")
			} else {
				fmt.Fprintf(out, "Current shot: %s\n", current.ID())
			}
			fmt.Fprintf(out, "Document: %s\n", doc.Path())
			fmt.Fprintf(out, "Frame range: %d-%d\n", doc.FirstFrame, doc.LastFrame)
			fmt.Fprintf(out, "Registered shots: %d\n", len(doc.Shots()))

			nodes := doc.Nodes()
			if len(nodes) == 0 {
				fmt.Fprintln(out, "No nodes")
				return nil
			}

			rows := make([][]string, 0, len(nodes))
			for _, node := range nodes {
				version := "-"
				if node.Versioned() {
					version = node.ActiveVersion
				}
				rows = append(rows, []string{
					node.Name,
					string(node.Kind),
					orDash(node.Department),
					version,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Node", "Kind", "Department", "Active"}, rows))
			return nil
		},
	}
}
