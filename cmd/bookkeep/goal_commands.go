package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newGoalCommand(ctx *commandContext) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage reading goals",
	}

	goalCmd.AddCommand(newGoalAddCommand(ctx))
	goalCmd.AddCommand(newListCommand(ctx, entity.KindGoal, listView{
		headers: []string{"Name", "Progress", "Books", "Start", "End"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		row: func(s entity.Summary) []string {
			goal, _ := s.Goal()
			return []string{
				s.Name,
				formatPercent(goal.Recompute()),
				booksDone(goal),
				formatDay(goal.StartDate),
				formatDay(goal.EndDate),
			}
		},
	}))
	goalCmd.AddCommand(newGoalShowCommand(ctx))
	goalCmd.AddCommand(newGoalToggleCommand(ctx))
	goalCmd.AddCommand(newGoalAddBookCommand(ctx))
	goalCmd.AddCommand(newRemoveCommand(ctx, entity.KindGoal))

	return goalCmd
}

func booksDone(goal *entity.Goal) string {
	done := 0
	for _, b := range goal.Books {
		if b.Status {
			done++
		}
	}
	return strconv.Itoa(done) + "/" + strconv.Itoa(len(goal.Books))
}

func newGoalAddCommand(ctx *commandContext) *cobra.Command {
	var books []string
	var startValue, endValue string
	var coverPath string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a reading goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay(startValue, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			end, err := parseDay(endValue, start.AddDate(1, 0, 0))
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			cover, err := readCoverFile(coverPath)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				summary, err := s.CreateGoal(runCtx, args[0], books, start, end, cover)
				if err != nil {
					return err
				}
				goal, _ := summary.Goal()
				fmt.Fprintf(cmd.OutOrStdout(), "Added goal %q with %d book(s), %s to %s\n",
					summary.Name, len(goal.Books), formatDay(goal.StartDate), formatDay(goal.EndDate))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&books, "book", "b", nil, "Book to include (repeatable)")
	cmd.Flags().StringVar(&startValue, "start", "", "Start date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&endValue, "end", "", "End date, YYYY-MM-DD (default one year after start)")
	cmd.Flags().StringVar(&coverPath, "cover", "", "PNG or JPEG cover image")
	return cmd
}

func newGoalShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one goal with its books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadForShow(cmd, ctx, entity.KindGoal, args[0], asJSON, func(s entity.Summary) []string {
				goal, _ := s.Goal()
				lines := []string{
					detailLine("Progress", formatPercent(goal.Recompute())+" ("+booksDone(goal)+")"),
					detailLine("Start", formatDay(goal.StartDate)),
					detailLine("End", formatDay(goal.EndDate)),
					detailLine("Complete", yesNo(goal.IsComplete())),
				}
				for _, b := range goal.Books {
					lines = append(lines, statusIndent+statusIndent+checkMark(b.Status)+" "+b.Name)
				}
				return lines
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newGoalToggleCommand(ctx *commandContext) *cobra.Command {
	var undone bool

	cmd := &cobra.Command{
		Use:   "toggle <goal> <book>",
		Short: "Mark a book in a goal as read (or unread with --undone)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				goal, err := s.ToggleGoalBook(runCtx, args[0], args[1], !undone)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				state := "read"
				if undone {
					state = "unread"
				}
				fmt.Fprintf(out, "Marked %q %s in %q (%s)\n", args[1], state, args[0], formatPercent(goal.Recompute()))
				if goal.IsComplete() {
					fmt.Fprintln(out, "Goal complete")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark the book unread")
	return cmd
}

func newGoalAddBookCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-book <goal> <book>",
		Short: "Append a book to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				goal, err := s.AddGoalBook(runCtx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %q (%s)\n", args[1], args[0], booksDone(goal))
				return nil
			})
		},
	}
}
