package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"multishot/internal/document"
	"multishot/internal/farm"
	"multishot/internal/paths"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var writeNodes []string
	var scriptPath string
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the current shot's write nodes to the render farm",
		Long: `Submit creates one Deadline job per write node, in document order,
with each job depending on the ones before it. The plugin path and color
config are propagated into every job's environment so render workers
resolve the same versions the artist saw.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}
			current := doc.Context()
			if !current.Complete() {
				return fmt.Errorf("no current shot: switch first")
			}

			script := scriptPath
			if script == "" {
				script = doc.Path()
			}

			selected := map[string]bool{}
			for _, name := range writeNodes {
				selected[name] = true
			}

			var jobs []farm.Job
			for _, node := range doc.Nodes() {
				if node.Kind != document.KindWrite {
					continue
				}
				if len(selected) > 0 && !selected[node.Name] {
					continue
				}
				outputDir := ""
				if node.FilePattern != "" {
					if resolved, missing := paths.Resolve(node.FilePattern, doc.Vars()); len(missing) == 0 {
						outputDir = resolved
					}
				}
				jobs = append(jobs, farm.Job{
					Shot:       current,
					Script:     script,
					WriteNode:  node.Name,
					OutputDir:  outputDir,
					FirstFrame: doc.FirstFrame,
					LastFrame:  doc.LastFrame,
					ChunkSize:  chunkSize,
				})
			}
			if len(jobs) == 0 {
				return fmt.Errorf("no write nodes to submit")
			}

			history, err := farm.OpenHistory(cfg)
			if err != nil {
				return err
			}
			defer history.Close()

			submitter := farm.NewSubmitter(cfg, history, ctx.ensureLogger())
			ids, err := submitter.Submit(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted %d job(s) for %s\n", len(ids), current.ID())
			for _, id := range ids {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&writeNodes, "write", "w", nil, "Write nodes to submit (defaults to all)")
	cmd.Flags().StringVar(&scriptPath, "render-script", "", "Script file rendered on the farm (defaults to the document path)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 10, "Frames per task")

	cmd.AddCommand(newSubmitHistoryCommand(ctx))
	return cmd
}

func newSubmitHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var shotID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent farm submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			history, err := farm.OpenHistory(cfg)
			if err != nil {
				return err
			}
			defer history.Close()

			subs, err := history.Recent(cmd.Context(), shotID, limit)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No submissions recorded")
				return nil
			}

			rows := make([][]string, 0, len(subs))
			for _, sub := range subs {
				rows = append(rows, []string{
					sub.JobID,
					sub.Shot,
					sub.WriteNode,
					sub.SubmittedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Job", "Shot", "Write Node", "Submitted"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	cmd.Flags().StringVar(&shotID, "shot", "", "Filter by shot identifier")
	return cmd
}
