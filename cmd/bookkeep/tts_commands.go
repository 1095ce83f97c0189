package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookkeep/internal/entity"
	"bookkeep/internal/store"
)

func newTTSCommand(ctx *commandContext) *cobra.Command {
	ttsCmd := &cobra.Command{
		Use:     "tts",
		Aliases: []string{"book", "books"},
		Short:   "Manage books read aloud",
	}

	ttsCmd.AddCommand(newTTSAddCommand(ctx))
	ttsCmd.AddCommand(newListCommand(ctx, entity.KindTTS, listView{
		headers: []string{"Name", "Page", "Content", "Description"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
		row: func(s entity.Summary) []string {
			book, _ := s.TTSBook()
			return []string{s.Name, strconv.Itoa(book.PageNumber), yesNo(s.ContentPath != ""), book.Description}
		},
	}))
	ttsCmd.AddCommand(newTTSShowCommand(ctx))
	ttsCmd.AddCommand(newTTSPageCommand(ctx))
	ttsCmd.AddCommand(newTTSContentCommand(ctx))
	ttsCmd.AddCommand(newRemoveCommand(ctx, entity.KindTTS))

	return ttsCmd
}

func newTTSAddCommand(ctx *commandContext) *cobra.Command {
	var description, author string
	var contentPath, coverPath string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a book to read aloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if author = strings.TrimSpace(author); author != "" && strings.TrimSpace(description) == "" {
				description = "Author: " + author
			}
			cover, err := readCoverFile(coverPath)
			if err != nil {
				return err
			}
			var content io.Reader
			if contentPath = strings.TrimSpace(contentPath); contentPath != "" {
				file, err := os.Open(contentPath)
				if err != nil {
					return fmt.Errorf("open content: %w", err)
				}
				defer file.Close()
				content = file
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				summary, err := s.CreateTTSBook(runCtx, args[0], description, content, cover)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added TTS book %q (content: %s)\n", summary.Name, yesNo(summary.ContentPath != ""))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	cmd.Flags().StringVar(&author, "author", "", "Author, used as the description when none is given")
	cmd.Flags().StringVar(&contentPath, "content", "", "PDF to store with the book")
	cmd.Flags().StringVar(&coverPath, "cover", "", "PNG or JPEG cover image")
	return cmd
}

func newTTSShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one TTS book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadForShow(cmd, ctx, entity.KindTTS, args[0], asJSON, func(s entity.Summary) []string {
				book, _ := s.TTSBook()
				return []string{
					detailLine("Description", book.Description),
					detailLine("Page", strconv.Itoa(book.PageNumber)),
					detailLine("Content", orDash(s.ContentPath)),
				}
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newTTSPageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "page <name> <page>",
		Short: "Record the last page reached",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid page %q", args[1])
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				book, err := s.SetReadingPage(runCtx, args[0], page)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q is now at page %d\n", args[0], book.PageNumber)
				return nil
			})
		},
	}
}

func newTTSContentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "content <name> <file>",
		Short: "Replace the stored PDF of a TTS book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open content: %w", err)
			}
			defer file.Close()
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				written, err := s.ReplaceContent(runCtx, args[0], file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %d bytes of content for %q\n", written, args[0])
				return nil
			})
		},
	}
}
