package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/preflight"
	"bookkeep/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the storage root and summarise the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Storage", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Root", statusInfo, cfg.Storage.Root, colorize))
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				fmt.Fprintln(out, renderCheck(result, colorize))
			}
			if preflight.Failed(results) {
				fmt.Fprintln(out, renderStatusLine("Hint", statusWarn, "run `bookkeep init` to create missing directories", colorize))
				return nil
			}

			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Library", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, kind := range entity.CollectionKinds() {
					items, err := s.ListEntities(runCtx, kind)
					if err != nil {
						fmt.Fprintln(out, renderStatusLine(titleCase(kindNounPlural(kind)), statusError, err.Error(), colorize))
						continue
					}
					kindStatus, message := statusOK, strconv.Itoa(len(items))
					if degraded := countDegraded(items); degraded > 0 {
						kindStatus = statusWarn
						message = fmt.Sprintf("%d (%d unreadable)", len(items), degraded)
					}
					fmt.Fprintln(out, renderStatusLine(titleCase(kindNounPlural(kind)), kindStatus, message, colorize))
				}
				profile, err := s.LoadProfile(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Profile", statusInfo,
					fmt.Sprintf("%s, %d review(s), %d goal(s) completed", profile.Username, profile.ReviewCount, profile.GoalsCompletedCount), colorize))
				return nil
			})
		},
	}
}

func countDegraded(items []entity.Summary) int {
	n := 0
	for _, item := range items {
		if item.Degraded {
			n++
		}
	}
	return n
}
