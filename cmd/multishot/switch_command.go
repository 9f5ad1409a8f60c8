package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"multishot/internal/document"
	"multishot/internal/switcher"
)

func newSwitchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <shot-id | project episode sequence shot>",
		Short: "Switch the document to another shot",
		Long: `Switch flushes every read node's active version into its per-shot
ledger, rewrites the document context, loads the ledger versions for the
target shot, and resolves the target's frame range from its metadata
sidecar.`,
		Args: cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseShotArgs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withDocument(func(doc *document.Document) error {
				sw := switcher.New(doc, cfg, ctx.ensureLogger())
				if err := sw.Switch(target); err != nil {
					return err
				}
				doc.AddShot(target)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Current shot: %s\n", doc.Context().ID())
				fmt.Fprintf(out, "Frame range: %d-%d\n", doc.FirstFrame, doc.LastFrame)
				for _, node := range doc.ReadNodes() {
					fmt.Fprintf(out, "  %s -> %s\n", node.Name, node.ActiveVersion)
				}
				return nil
			})
		},
	}
}
