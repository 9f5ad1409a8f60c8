package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"multishot/internal/document"
)

func newNodesCommand(ctx *commandContext) *cobra.Command {
	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "Manage the document's node registry",
	}

	nodesCmd.AddCommand(newNodesAddCommand(ctx))
	nodesCmd.AddCommand(newNodesRemoveCommand(ctx))

	return nodesCmd
}

func newNodesAddCommand(ctx *commandContext) *cobra.Command {
	var department string
	var outputType string
	var switchMode string

	cmd := &cobra.Command{
		Use:   "add <read|write|switch> <name>",
		Short: "Add a node to the document",
		Long: `Add a node. Read nodes carry a per-shot version ledger; write and
switch nodes do not and are never touched by version operations.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name := args[0], args[1]

			var node *document.Node
			switch kind {
			case "read":
				node = document.NewReadNode(name, department)
			case "write":
				node = document.NewWriteNode(name, department, outputType)
			case "switch":
				node = document.NewSwitchNode(name, switchMode)
			default:
				return fmt.Errorf("unknown node kind %q (read, write, or switch)", kind)
			}

			return ctx.withDocument(func(doc *document.Document) error {
				if err := doc.AddNode(node); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s node %s\n", kind, name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&department, "department", "d", "comp", "Department the node belongs to")
	cmd.Flags().StringVar(&outputType, "output-type", "exr", "Output type for write nodes")
	cmd.Flags().StringVar(&switchMode, "mode", "manual", "Selection mode for switch nodes")
	return cmd
}

func newNodesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a node from the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(func(doc *document.Document) error {
				if !doc.RemoveNode(args[0]) {
					return fmt.Errorf("no node named %q", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed node %s\n", args[0])
				return nil
			})
		},
	}
}
