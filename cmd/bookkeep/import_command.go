package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookkeep/internal/entity"
	"bookkeep/internal/logging"
	"bookkeep/internal/store"
)

// candidateRecord is one search result in an import file. JSON files parse
// too since YAML is a superset.
type candidateRecord struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cover       string `yaml:"cover"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <review|tts> <file>",
		Short: "Create reviews or TTS books from a list of search results",
		Long: "Read a YAML or JSON list of {name, description, cover} entries and create one\n" +
			"entity per entry. Titles are sanitized into directory names; entries that\n" +
			"already exist are skipped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseKind(args[0])
			if err != nil {
				return err
			}
			if kind != entity.KindReview && kind != entity.KindTTS {
				return fmt.Errorf("%w: import supports reviews and TTS books", store.ErrKind)
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var records []candidateRecord
			if err := yaml.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}

			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				logger, _ := ctx.ensureLogger()
				out := cmd.OutOrStdout()
				created, skipped := 0, 0
				for _, rec := range records {
					cover, err := readCoverFile(importCoverPath(args[1], rec.Cover))
					if err != nil {
						return err
					}
					summary, err := s.CreateFromCandidate(runCtx, kind, store.Candidate{Name: rec.Name, Description: rec.Description}, cover)
					switch {
					case err == nil:
						created++
						fmt.Fprintf(out, "Added %s %q\n", kindNoun(kind), summary.Name)
					case errors.Is(err, store.ErrExists), errors.Is(err, store.ErrInvalidName):
						skipped++
						logger.Info("import entry skipped",
							logging.String(logging.FieldEntity, rec.Name),
							logging.String("reason", err.Error()),
						)
						fmt.Fprintf(out, "Skipped %q: %v\n", rec.Name, err)
					default:
						return err
					}
				}
				fmt.Fprintf(out, "Imported %d, skipped %d\n", created, skipped)
				return nil
			})
		},
	}
}

// importCoverPath resolves a relative cover path against the directory of
// the import file.
func importCoverPath(listPath, cover string) string {
	cover = strings.TrimSpace(cover)
	if cover == "" || filepath.IsAbs(cover) {
		return cover
	}
	return filepath.Join(filepath.Dir(listPath), cover)
}
