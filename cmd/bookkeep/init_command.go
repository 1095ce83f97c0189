package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the library layout and default profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Library ready at %s\n", s.Root())
				for _, kind := range entity.CollectionKinds() {
					path, err := s.CollectionPath(kind)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, detailLine(titleCase(kindNounPlural(kind)), path))
				}
				return nil
			})
		},
	}
}
