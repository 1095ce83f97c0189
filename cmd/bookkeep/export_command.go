package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookkeep/internal/config"
	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/store"
)

// exportDocument is the full library snapshot written by the export command.
type exportDocument struct {
	ExportedAt string         `json:"exported_at" yaml:"exported_at"`
	Root       string         `json:"root" yaml:"root"`
	Profile    *profileRecord `json:"profile,omitempty" yaml:"profile,omitempty"`
	Goals      []entityRecord `json:"goals,omitempty" yaml:"goals,omitempty"`
	Reviews    []entityRecord `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	TTSBooks   []entityRecord `json:"tts,omitempty" yaml:"tts,omitempty"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export [kind]",
		Short: "Export the library (or one collection) as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			kinds := append(entity.CollectionKinds(), entity.KindProfile)
			if len(args) == 1 {
				kind, err := entity.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []entity.Kind{kind}
			}
			return ctx.withStore(cmd, func(runCtx context.Context, s *store.Store) error {
				doc, err := buildExport(runCtx, s, kinds, time.Now())
				if err != nil {
					return err
				}
				if outputPath == "" {
					return encodeFormatted(cmd.OutOrStdout(), format, doc)
				}
				target, err := config.ExpandPath(outputPath)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				var buf bytes.Buffer
				if err := encodeFormatted(&buf, format, doc); err != nil {
					return err
				}
				if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported library to %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func buildExport(ctx context.Context, s *store.Store, kinds []entity.Kind, now time.Time) (exportDocument, error) {
	doc := exportDocument{
		ExportedAt: entity.FormatDate(now),
		Root:       s.Root(),
	}
	for _, kind := range kinds {
		if kind == entity.KindProfile {
			profile, err := s.LoadProfile(ctx)
			if err != nil {
				return exportDocument{}, err
			}
			rec := newProfileRecord(profile)
			doc.Profile = &rec
			continue
		}
		items, err := s.ListEntities(ctx, kind)
		if err != nil {
			return exportDocument{}, err
		}
		records := newEntityRecords(items)
		switch kind {
		case entity.KindGoal:
			doc.Goals = records
		case entity.KindReview:
			doc.Reviews = records
		case entity.KindTTS:
			doc.TTSBooks = records
		}
	}
	return doc, nil
}
