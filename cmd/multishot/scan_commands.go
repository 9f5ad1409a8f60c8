package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"multishot/internal/paths"
	"multishot/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover the project hierarchy on disk",
		Long: `Scan lists projects, episodes, sequences, shots, departments, and
versions from the project tree. Listings are cached for the configured
window; missing directories produce an empty listing, not an error.`,
	}

	scanCmd.AddCommand(newScanLevelCommand(ctx, "projects", "List projects under the project root", 0))
	scanCmd.AddCommand(newScanLevelCommand(ctx, "episodes", "List a project's episodes", 1))
	scanCmd.AddCommand(newScanLevelCommand(ctx, "sequences", "List an episode's sequences", 2))
	scanCmd.AddCommand(newScanLevelCommand(ctx, "shots", "List a sequence's shots", 3))
	scanCmd.AddCommand(newScanDepartmentsCommand(ctx))
	scanCmd.AddCommand(newScanVersionsCommand(ctx))

	return scanCmd
}

func newScanLevelCommand(ctx *commandContext, use, short string, argCount int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(argCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			scan, root, err := newScanner(ctx)
			if err != nil {
				return err
			}

			var names []string
			switch argCount {
			case 0:
				names = scan.Projects(root)
			case 1:
				names = scan.Episodes(root, args[0])
			case 2:
				names = scan.Sequences(root, args[0], args[1])
			case 3:
				names = scan.Shots(root, args[0], args[1], args[2])
			}
			printListing(cmd.OutOrStdout(), use, names)
			return nil
		},
	}
}

func newScanDepartmentsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "departments <shot-id | project episode sequence shot>",
		Short: "List a shot's departments",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseShotArgs(args)
			if err != nil {
				return err
			}
			scan, root, err := newScanner(ctx)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), "departments", scan.Departments(root, ref))
			return nil
		},
	}
}

func newScanVersionsCommand(ctx *commandContext) *cobra.Command {
	var department string
	var publish bool
	var latest bool

	cmd := &cobra.Command{
		Use:   "versions <shot-id | project episode sequence shot>",
		Short: "List a shot department's versions",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseShotArgs(args)
			if err != nil {
				return err
			}
			scan, root, err := newScanner(ctx)
			if err != nil {
				return err
			}

			dir := paths.VersionRootDir(root, ref, department)
			if publish {
				dir = paths.PublishDir(root, ref, department)
			}

			if latest {
				label, ok := scan.LatestVersion(dir)
				if !ok {
					return fmt.Errorf("no versions under %s", dir)
				}
				fmt.Fprintln(cmd.OutOrStdout(), label)
				return nil
			}
			printListing(cmd.OutOrStdout(), "versions", scan.Versions(dir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&department, "department", "d", "comp", "Department to list versions for")
	cmd.Flags().BoolVar(&publish, "publish", false, "List the publish tree instead of working versions")
	cmd.Flags().BoolVar(&latest, "latest", false, "Print only the highest version")
	return cmd
}

func newScanner(ctx *commandContext) (*scanner.Scanner, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	doc, err := ctx.openDocument()
	if err != nil {
		// Scanning works without a document; fall back to the configured root.
		doc = nil
	}
	scan, err := scanner.New(cfg, ctx.ensureLogger())
	if err != nil {
		return nil, "", err
	}
	return scan, ctx.projectRoot(doc), nil
}

// printListing renders a table on a terminal and bare lines when piped, so
// the output stays scriptable.
func printListing(out io.Writer, header string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(out, "No %s found\n", header)
		return
	}
	if !isTerminal(out) {
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	fmt.Fprintln(out, renderTable([]string{header}, rows))
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
