package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"multishot/internal/document"
	"multishot/internal/shot"
	"multishot/internal/switcher"
	"multishot/internal/versions"
)

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "Inspect and assign per-shot node versions",
	}

	versionsCmd.AddCommand(newVersionsListCommand(ctx))
	versionsCmd.AddCommand(newVersionsSetCommand(ctx))
	versionsCmd.AddCommand(newVersionsBumpCommand(ctx))

	return versionsCmd
}

func newVersionsListCommand(ctx *commandContext) *cobra.Command {
	var nodeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List version ledgers for read nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}

			nodes := doc.ReadNodes()
			if nodeName != "" {
				node := doc.NodeByName(nodeName)
				if node == nil {
					return fmt.Errorf("no node named %q", nodeName)
				}
				if !node.Versioned() {
					return fmt.Errorf("node %q carries no version ledger", nodeName)
				}
				nodes = []*document.Node{node}
			}

			currentID := doc.Context().ID()
			rows := [][]string{}
			for _, node := range nodes {
				ids := make([]string, 0, len(node.Versions))
				for id := range node.Versions {
					ids = append(ids, string(id))
				}
				sort.Strings(ids)
				for _, id := range ids {
					marker := ""
					if shot.ID(id) == currentID {
						marker = "*"
					}
					rows = append(rows, []string{node.Name, id, node.Versions[shot.ID(id)], marker})
				}
				if len(ids) == 0 {
					rows = append(rows, []string{node.Name, "-", "-", ""})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No read nodes")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Node", "Shot", "Version", "Current"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&nodeName, "node", "n", "", "Limit output to one node")
	return cmd
}

func newVersionsSetCommand(ctx *commandContext) *cobra.Command {
	var shotID string

	cmd := &cobra.Command{
		Use:   "set <node=version> [node=version ...]",
		Short: "Assign versions to read nodes for a shot",
		Long: `Assign version labels to read nodes. The target shot defaults to the
document's current shot; --shot switches to another shot first. An
assignment for a non-current shot lands only in the ledger and is picked
up on the next switch to that shot.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments := map[string]string{}
			for _, arg := range args {
				name, label, ok := strings.Cut(arg, "=")
				if !ok || name == "" || label == "" {
					return fmt.Errorf("assignment %q must be node=version", arg)
				}
				if _, ok := versions.Parse(label); !ok {
					return fmt.Errorf("version %q is not a vNNN or vNNN_NNN label", label)
				}
				assignments[name] = label
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withDocument(func(doc *document.Document) error {
				target := doc.Context()
				if shotID != "" {
					parsed, err := shot.Parse(shotID)
					if err != nil {
						return err
					}
					target = parsed
				}
				if !target.Complete() {
					return fmt.Errorf("no target shot: switch first or pass --shot")
				}

				sw := switcher.New(doc, cfg, ctx.ensureLogger())
				if err := sw.SetVersions(target, assignments); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Assigned %d version(s) for %s\n", len(assignments), target.ID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&shotID, "shot", "", "Target shot identifier (defaults to the current shot)")
	return cmd
}

func newVersionsBumpCommand(ctx *commandContext) *cobra.Command {
	var sub bool

	cmd := &cobra.Command{
		Use:   "bump <node>",
		Short: "Increment a read node's active version for the current shot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withDocument(func(doc *document.Document) error {
				current := doc.Context()
				if !current.Complete() {
					return fmt.Errorf("no current shot: switch first")
				}
				node := doc.NodeByName(args[0])
				if node == nil {
					return fmt.Errorf("no node named %q", args[0])
				}
				if !node.Versioned() {
					return fmt.Errorf("node %q carries no version ledger", args[0])
				}

				next := versions.Increment(node.ActiveVersion)
				if sub {
					next = versions.SubVersion(node.ActiveVersion)
				}
				sw := switcher.New(doc, cfg, ctx.ensureLogger())
				if err := sw.SetVersions(current, map[string]string{node.Name: next}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", node.Name, next)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&sub, "sub", false, "Create a sub-version instead of the next major version")
	return cmd
}
