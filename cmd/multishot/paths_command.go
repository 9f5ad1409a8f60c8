package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"multishot/internal/paths"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	var department string

	cmd := &cobra.Command{
		Use:   "paths [template]",
		Short: "Resolve configured path templates against the document",
		Long: `Resolve the configured path templates using the document's merged
variable map. Without arguments every template is shown; with a template
name (scene, nuke_files, publish, comp_renders) only that one is printed,
which keeps the output scriptable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := ctx.openDocument()
			if err != nil {
				return err
			}

			vars := doc.Vars()
			if vars["PROJ_ROOT"] == "" {
				vars["PROJ_ROOT"] = cfg.Paths.ProjectRoot
			}
			if vars["IMG_ROOT"] == "" {
				vars["IMG_ROOT"] = cfg.Paths.ImageRoot
			}
			if department != "" {
				vars["department"] = department
			}

			templates := []struct {
				name     string
				template string
			}{
				{"scene", cfg.Templates.Scene},
				{"nuke_files", cfg.Templates.NukeFiles},
				{"publish", cfg.Templates.Publish},
				{"comp_renders", cfg.Templates.CompRenders},
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				for _, entry := range templates {
					if entry.name != args[0] {
						continue
					}
					resolved, missing := paths.Resolve(entry.template, vars)
					if len(missing) > 0 {
						return fmt.Errorf("template %s missing variables: %s (switch to a shot first)",
							entry.name, strings.Join(missing, ", "))
					}
					fmt.Fprintln(out, resolved)
					return nil
				}
				return fmt.Errorf("unknown template %q (scene, nuke_files, publish, comp_renders)", args[0])
			}

			rows := make([][]string, 0, len(templates))
			for _, entry := range templates {
				resolved, missing := paths.Resolve(entry.template, vars)
				note := ""
				if len(missing) > 0 {
					note = "missing: " + strings.Join(missing, ", ")
				}
				rows = append(rows, []string{entry.name, resolved, note})
			}
			fmt.Fprintln(out, renderTable([]string{"Template", "Resolved", "Note"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&department, "department", "d", "", "Value for the {department} token")
	return cmd
}
