package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"multishot/internal/approval"
	"multishot/internal/config"
)

func newApproveCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newApproveCommand(ctx),
		newUnapproveCommand(ctx),
	}
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var approver string
	var notes string
	var show bool

	cmd := &cobra.Command{
		Use:   "approve <path>",
		Short: "Mark a version directory or render as approved",
		Long: `Approve writes a sentinel next to the target recording who approved
it and when. With --show the existing approval is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if show {
				record, ok, err := approval.Info(target)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(out, "%s is not approved\n", target)
					return nil
				}
				fmt.Fprintf(out, "Approved by: %s\n", record.ApprovedBy)
				fmt.Fprintf(out, "Approved at: %s\n", record.ApprovedAt.Local().Format("2006-01-02 15:04"))
				if record.Version != "" {
					fmt.Fprintf(out, "Version: %s\n", record.Version)
				}
				if record.Notes != "" {
					fmt.Fprintf(out, "Notes: %s\n", record.Notes)
				}
				return nil
			}

			if approver == "" {
				approver = currentUser()
			}
			record, err := approval.Approve(target, approver, notes)
			if err != nil {
				return err
			}
			ctx.ensureLogger().Info("approved", "path", target, "by", record.ApprovedBy, "version", record.Version)
			fmt.Fprintf(out, "Approved %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&approver, "by", "", "Approver name (defaults to the current user)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form approval notes")
	cmd.Flags().BoolVar(&show, "show", false, "Show the existing approval instead of approving")
	return cmd
}

func newUnapproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unapprove <path>",
		Short: "Remove an approval marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if err := approval.Unapprove(target); err != nil {
				return err
			}
			ctx.ensureLogger().Info("unapproved", "path", target)
			fmt.Fprintf(cmd.OutOrStdout(), "Unapproved %s\n", target)
			return nil
		},
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
