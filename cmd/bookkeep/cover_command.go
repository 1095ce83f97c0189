package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	coverCmd := &cobra.Command{
		Use:   "cover",
		Short: "Manage cover images",
	}
	coverCmd.AddCommand(newCoverSetCommand(ctx))
	return coverCmd
}

func newCoverSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> [name] <file>",
		Short: "Replace the cover of an entity, or the profile picture",
		Long: "Replace the cover of a goal, review or TTS book with a PNG or JPEG file.\n" +
			"The profile takes no name: bookkeep cover set profile picture.png",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseKind(args[0])
			if err != nil {
				return err
			}
			var name, path string
			switch {
			case kind == entity.KindProfile && len(args) == 2:
				path = args[1]
			case kind != entity.KindProfile && len(args) == 3:
				name, path = args[1], args[2]
			default:
				return fmt.Errorf("usage: %s", cmd.UseLine())
			}
			img, err := readCoverFile(path)
			if err != nil {
				return err
			}
			if img == nil {
				return fmt.Errorf("cover file path is empty")
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				if err := s.ReplaceCover(runCtx, kind, name, img); err != nil {
					return err
				}
				if kind == entity.KindProfile {
					fmt.Fprintln(cmd.OutOrStdout(), "Updated profile picture")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Updated cover of %s %q\n", kindNoun(kind), name)
				}
				return nil
			})
		},
	}
}
