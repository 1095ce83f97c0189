package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and maintain the user profile",
	}

	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileRenameCommand(ctx))
	profileCmd.AddCommand(newProfileReconcileCommand(ctx))

	return profileCmd
}

func renderProfile(cmd *cobra.Command, profile *entity.Profile) {
	out := cmd.OutOrStdout()
	for _, line := range renderSectionHeader("Profile", shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, detailLine("Username", profile.Username))
	fmt.Fprintln(out, detailLine("Installed", orDash(profile.InstallDate)))
	fmt.Fprintln(out, detailLine("Reviews written", strconv.Itoa(profile.ReviewCount)))
	fmt.Fprintln(out, detailLine("Goals completed", strconv.Itoa(profile.GoalsCompletedCount)))
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile and its counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				profile, err := s.LoadProfile(runCtx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, newProfileRecord(profile))
				}
				renderProfile(cmd, profile)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newProfileRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <username>",
		Short: "Change the profile username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				profile, err := s.RenameProfile(runCtx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Username set to %q\n", profile.Username)
				return nil
			})
		},
	}
}

func newProfileReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recount reviews and completed goals from disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				profile, err := s.ReconcileProfile(runCtx)
				if err != nil {
					return err
				}
				renderProfile(cmd, profile)
				return nil
			})
		},
	}
}
