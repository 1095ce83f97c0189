package store

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/logging"
)

// ListEntities returns every entity of a collection sorted by name. A
// missing collection directory yields an empty list; one damaged entity is
// returned with defaults and Degraded set instead of failing the listing.
func (s *Store) ListEntities(ctx context.Context, kind entity.Kind) ([]entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout, err := s.collectionLayout(kind)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, layout.Collection)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.Summary{}, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", layout.Collection, err)
	}

	summaries := make([]entity.Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if isHousekeeping(name) {
			continue
		}
		if !entry.IsDir() {
			// Follow symlinks; plain files are noise.
			if entry.Type()&fs.ModeSymlink == 0 || !fileutil.IsDir(filepath.Join(dir, name)) {
				continue
			}
		}
		summaries = append(summaries, s.loadSummary(ctx, layout, name))
	}
	sortSummaries(summaries)

	logging.WithContext(logging.WithCollection(ctx, kind.Plural()), s.logger).Debug("collection listed",
		logging.Int("count", len(summaries)),
	)
	return summaries, nil
}

func sortSummaries(summaries []entity.Summary) {
	slices.SortStableFunc(summaries, func(a, b entity.Summary) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// LoadEntity materializes one entity with the same rules as ListEntities.
func (s *Store) LoadEntity(ctx context.Context, kind entity.Kind, name string) (entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return entity.Summary{}, err
	}
	layout, err := s.collectionLayout(kind)
	if err != nil {
		return entity.Summary{}, err
	}
	if err := ValidateName(name); err != nil {
		return entity.Summary{}, err
	}
	if !fileutil.IsDir(s.entityDir(layout, name)) {
		return entity.Summary{}, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	return s.loadSummary(ctx, layout, name), nil
}

func (s *Store) loadSummary(ctx context.Context, layout entity.Layout, name string) entity.Summary {
	logger := s.loggerFor(ctx, layout.Kind, name)
	dir := s.entityDir(layout, name)
	summary := entity.Summary{
		Kind:  layout.Kind,
		Name:  name,
		Dir:   dir,
		Cover: s.resolveCover(logger, dir, layout.CoverNames(name)),
	}

	e, degraded := s.readSidecar(logger, layout.Kind, filepath.Join(dir, layout.SidecarName(name)))
	summary.Entity = e
	summary.Degraded = degraded
	if goal, ok := e.(*entity.Goal); ok {
		goal.Recompute()
	}

	if content := layout.ContentName(name); content != "" {
		path := filepath.Join(dir, content)
		if exists, _ := fileutil.Exists(path); exists {
			summary.ContentPath = path
		}
	}
	return summary
}

// readSidecar decodes the sidecar at path. A missing file yields defaults
// silently; an unreadable or corrupt one yields defaults and degraded=true.
func (s *Store) readSidecar(logger *slog.Logger, kind entity.Kind, path string) (entity.Entity, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		fallback, _ := entity.New(kind)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("sidecar missing; defaults used", logging.Path(path))
			return fallback, false
		}
		logging.WarnWithContext(logger, "sidecar unreadable; defaults used", "sidecar_read_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check file permissions"),
			logging.String(logging.FieldImpact, "entity shows default values"),
		)
		return fallback, true
	}
	e, err := entity.Decode(kind, data)
	if err != nil {
		logging.WarnWithContext(logger, "sidecar corrupt; defaults used", "sidecar_decode_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect or rewrite the sidecar JSON"),
			logging.String(logging.FieldImpact, "entity shows default values for unreadable fields"),
		)
		return e, true
	}
	return e, false
}

var placeholderInfo = func() entity.ImageInfo {
	info, _ := entity.InspectImage(bytes.NewReader(entity.PlaceholderImage()))
	return info
}()

// resolveCover returns the first readable cover among candidates, or the
// placeholder.
func (s *Store) resolveCover(logger *slog.Logger, dir string, candidates []string) entity.Cover {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		file, err := os.Open(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Debug("cover unreadable", logging.Path(path), logging.Error(err))
			}
			continue
		}
		info, err := entity.InspectImage(file)
		_ = file.Close()
		if err != nil {
			logging.WarnWithContext(logger, "cover image undecodable; placeholder shown", "cover_decode_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "replace the cover with a PNG or JPEG"),
				logging.String(logging.FieldImpact, "placeholder cover displayed"),
			)
			continue
		}
		return entity.Cover{Path: path, ImageInfo: info}
	}
	return entity.Cover{Placeholder: true, ImageInfo: placeholderInfo}
}
