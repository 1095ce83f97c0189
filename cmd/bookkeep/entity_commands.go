package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookkeep/internal/collection"
	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

// listView renders one collection as a table.
type listView struct {
	headers []string
	aligns  []columnAlignment
	row     func(entity.Summary) []string
}

func newListCommand(ctx *commandContext, kind entity.Kind, view listView) *cobra.Command {
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + kindNounPlural(kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				logger, _ := ctx.ensureLogger()
				cache := collection.New(s, kind, logger)
				items, err := cache.Filter(runCtx, collection.ParseTerms(filter))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, newEntityRecords(items))
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					if strings.TrimSpace(filter) != "" {
						fmt.Fprintf(out, "No %s match %q\n", kindNounPlural(kind), filter)
					} else {
						fmt.Fprintf(out, "No %s yet\n", kindNounPlural(kind))
					}
					return nil
				}
				rows := make([][]string, 0, len(items))
				degraded := 0
				for _, item := range items {
					row := view.row(item)
					if item.Degraded {
						degraded++
						row[0] += " (!)"
					}
					rows = append(rows, row)
				}
				fmt.Fprint(out, renderTableSpec(tableSpec{
					Title:    titleCase(kindNounPlural(kind)),
					Headers:  view.headers,
					Rows:     rows,
					Aligns:   view.aligns,
					MaxWidth: 48,
				}))
				if degraded > 0 {
					fmt.Fprintf(out, "(!) %d unreadable record(s) shown with defaults\n", degraded)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show entries whose name or tags contain every word")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newRemoveCommand(ctx *commandContext, kind entity.Kind) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   fmt.Sprintf("Delete a %s and its files", kindNoun(kind)),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				logger, _ := ctx.ensureLogger()
				cache := collection.New(s, kind, logger)
				if err := cache.Delete(runCtx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", kindNoun(kind), args[0])
				return nil
			})
		},
	}
}

// loadForShow fetches one entity and either writes it as JSON or hands it to
// render for the human-readable form.
func loadForShow(cmd *cobra.Command, ctx *commandContext, kind entity.Kind, name string, asJSON bool, render func(entity.Summary) []string) error {
	return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
		summary, err := s.LoadEntity(runCtx, kind, name)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd, newEntityRecord(summary))
		}
		out := cmd.OutOrStdout()
		colorize := shouldColorize(out)
		for _, line := range renderSectionHeader(fmt.Sprintf("%s: %s", titleCase(kindNoun(kind)), summary.Name), colorize) {
			fmt.Fprintln(out, line)
		}
		if summary.Degraded {
			fmt.Fprintln(out, renderStatusLine("Record", statusWarn, "sidecar unreadable; showing defaults", colorize))
		}
		for _, line := range render(summary) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, detailLine("Cover", coverLabel(summary.Cover)))
		return nil
	})
}

func detailLine(label, value string) string {
	return fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", value)
}
