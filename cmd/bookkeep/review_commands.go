package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:     "review",
		Aliases: []string{"reviews"},
		Short:   "Manage reviews of books you have read",
	}

	reviewCmd.AddCommand(newReviewAddCommand(ctx))
	reviewCmd.AddCommand(newListCommand(ctx, entity.KindReview, listView{
		headers: []string{"Name", "Tags", "Description"},
		row: func(s entity.Summary) []string {
			review, _ := s.Review()
			return []string{s.Name, orDash(strings.Join(review.Tags, ", ")), review.Description}
		},
	}))
	reviewCmd.AddCommand(newReviewShowCommand(ctx))
	reviewCmd.AddCommand(newReviewEditCommand(ctx))
	reviewCmd.AddCommand(newRemoveCommand(ctx, entity.KindReview))

	return reviewCmd
}

func newReviewAddCommand(ctx *commandContext) *cobra.Command {
	var description string
	var tags []string
	var coverPath string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Record a new review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cover, err := readCoverFile(coverPath)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				summary, err := s.CreateReview(runCtx, args[0], description, tags, cover)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added review %q (%s)\n", summary.Name, coverLabel(summary.Cover))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Review text")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&coverPath, "cover", "", "PNG or JPEG cover image")
	return cmd
}

func newReviewShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadForShow(cmd, ctx, entity.KindReview, args[0], asJSON, func(s entity.Summary) []string {
				review, _ := s.Review()
				return []string{
					detailLine("Tags", orDash(strings.Join(review.Tags, ", "))),
					detailLine("Description", review.Description),
				}
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newReviewEditCommand(ctx *commandContext) *cobra.Command {
	var description string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change a review's description or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newTags []string
			if cmd.Flags().Changed("tag") {
				newTags = append([]string{}, tags...)
			}
			if description == "" && newTags == nil {
				return fmt.Errorf("nothing to change; pass --description or --tag")
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				review, err := s.UpdateReview(runCtx, args[0], description, newTags)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated review %q (tags: %s)\n", args[0], orDash(strings.Join(review.Tags, ", ")))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "New review text")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace tags (repeatable; pass --tag= to clear)")
	return cmd
}
