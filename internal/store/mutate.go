package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/logging"
)

func (s *Store) writeSidecar(layout entity.Layout, name string, e entity.Entity) error {
	data, err := e.Encode()
	if err != nil {
		return fmt.Errorf("store: encode %s %q: %w", layout.Kind, name, err)
	}
	path := filepath.Join(s.entityDir(layout, name), layout.SidecarName(name))
	if err := s.writeFile(path, data, fileMode); err != nil {
		return fmt.Errorf("store: write sidecar %s: %w", path, err)
	}
	return nil
}

// SaveEntity rewrites the sidecar of an existing entity. Cover and content
// files are left alone. Goal progress is recomputed; a goal reaching 1.0 for
// the first time is marked as counted and bumps the profile counter.
func (s *Store) SaveEntity(ctx context.Context, name string, e entity.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e == nil {
		return errors.New("store: save nil entity")
	}
	layout, err := s.collectionLayout(e.Kind())
	if err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if !fileutil.IsDir(s.entityDir(layout, name)) {
		return fmt.Errorf("%w: %s %q", ErrNotFound, layout.Kind, name)
	}

	goal, isGoal := e.(*entity.Goal)
	firstCompletion := false
	if isGoal {
		goal.Recompute()
		// The counter flag is sticky: a caller holding a stale copy cannot clear it.
		if !goal.Counted {
			path := filepath.Join(s.entityDir(layout, name), layout.SidecarName(name))
			if data, err := os.ReadFile(path); err == nil {
				if prior, _ := entity.DecodeGoal(data); prior != nil && prior.Counted {
					goal.Counted = true
				}
			}
		}
		if goal.IsComplete() && !goal.Counted {
			goal.Counted = true
			firstCompletion = true
		}
	}

	if err := s.writeSidecar(layout, name, e); err != nil {
		if firstCompletion {
			goal.Counted = false
		}
		return err
	}

	logger := s.loggerFor(ctx, layout.Kind, name)
	logger.Debug("sidecar saved")
	if firstCompletion {
		logger.Info("goal completed", logging.Int("books", len(goal.Books)))
		s.bumpProfile(ctx, "goal_completed", func(p *entity.Profile) { p.GoalsCompletedCount++ })
	}
	return nil
}

// DeleteEntity removes an entity directory. The directory is first renamed
// to a hidden trash name so a failed removal never leaves a half-deleted
// entity visible; if that rename fails the entity is untouched and the error
// is returned.
func (s *Store) DeleteEntity(ctx context.Context, kind entity.Kind, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	layout, err := s.collectionLayout(kind)
	if err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	dir := s.entityDir(layout, name)
	if !fileutil.IsDir(dir) {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}

	logger := s.loggerFor(ctx, kind, name)
	trash := filepath.Join(filepath.Dir(dir), "."+name+trashInfix+s.newID())
	if err := s.rename(dir, trash); err != nil {
		return fmt.Errorf("store: delete %s %q: %w", kind, name, err)
	}
	if err := s.removeAll(trash); err != nil {
		logging.WarnWithContext(logger, "deleted entity not purged from disk", "delete_purge_failed",
			logging.Path(trash),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "bookkeep init removes leftover trash directories"),
			logging.String(logging.FieldImpact, "hidden directory keeps using disk space"),
		)
	}
	logger.Info("entity deleted")
	return nil
}

// ToggleGoalBook sets the status of one book in a goal and saves it.
func (s *Store) ToggleGoalBook(ctx context.Context, goalName, book string, status bool) (*entity.Goal, error) {
	goal, err := s.loadGoal(ctx, goalName)
	if err != nil {
		return nil, err
	}
	idx := goal.BookIndex(book)
	if idx < 0 {
		return nil, fmt.Errorf("%w: book %q in goal %q", ErrNotFound, book, goalName)
	}
	goal.Books[idx].Status = status
	if err := s.SaveEntity(ctx, goalName, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// AddGoalBook appends an unread book to a goal.
func (s *Store) AddGoalBook(ctx context.Context, goalName, book string) (*entity.Goal, error) {
	if err := ValidateName(book); err != nil {
		return nil, err
	}
	goal, err := s.loadGoal(ctx, goalName)
	if err != nil {
		return nil, err
	}
	if goal.BookIndex(book) >= 0 {
		return nil, fmt.Errorf("%w: book %q in goal %q", ErrExists, book, goalName)
	}
	goal.Books = append(goal.Books, entity.BookEntry{Name: book})
	if err := s.SaveEntity(ctx, goalName, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Store) loadGoal(ctx context.Context, name string) (*entity.Goal, error) {
	summary, err := s.LoadEntity(ctx, entity.KindGoal, name)
	if err != nil {
		return nil, err
	}
	goal, _ := summary.Goal()
	return goal, nil
}

// SetReadingPage records the last page reached in a TTS book. Negative pages
// are stored as 0.
func (s *Store) SetReadingPage(ctx context.Context, name string, page int) (*entity.TTSBook, error) {
	summary, err := s.LoadEntity(ctx, entity.KindTTS, name)
	if err != nil {
		return nil, err
	}
	book, _ := summary.TTSBook()
	book.PageNumber = max(page, 0)
	if err := s.SaveEntity(ctx, name, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateReview replaces a review's description and tags. Nil tags keep the
// current ones.
func (s *Store) UpdateReview(ctx context.Context, name, description string, tags []string) (*entity.Review, error) {
	summary, err := s.LoadEntity(ctx, entity.KindReview, name)
	if err != nil {
		return nil, err
	}
	review, _ := summary.Review()
	if description != "" {
		review.Description = description
	}
	if tags != nil {
		review.Tags = normalizeTags(tags)
	}
	if err := s.SaveEntity(ctx, name, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ReplaceCover installs new cover bytes for an entity. The profile is
// addressed with KindProfile and an empty name.
func (s *Store) ReplaceCover(ctx context.Context, kind entity.Kind, name string, img []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	layout, err := entity.LayoutFor(kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKind, err)
	}
	dir := s.profileDir()
	if !layout.Singleton {
		if err := ValidateName(name); err != nil {
			return err
		}
		dir = s.entityDir(layout, name)
	}
	if !fileutil.IsDir(dir) {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	info, err := entity.InspectImage(bytes.NewReader(img))
	if err != nil {
		return err
	}

	base := layout.CoverBase(name)
	target := filepath.Join(dir, base+info.Ext())
	if err := s.writeFile(target, img, fileMode); err != nil {
		return fmt.Errorf("store: write cover %s: %w", target, err)
	}
	// Drop the cover stored under the other extension so probing finds the new one.
	for _, candidate := range layout.CoverNames(name) {
		path := filepath.Join(dir, candidate)
		if path == target {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: remove stale cover %s: %w", path, err)
		}
	}
	s.loggerFor(ctx, kind, name).Info("cover replaced",
		logging.String("format", info.Format),
		logging.Int("width", info.Width),
		logging.Int("height", info.Height),
	)
	return nil
}

// ReplaceContent streams a new content file into a TTS book.
func (s *Store) ReplaceContent(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	layout, err := s.collectionLayout(entity.KindTTS)
	if err != nil {
		return 0, err
	}
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	dir := s.entityDir(layout, name)
	if !fileutil.IsDir(dir) {
		return 0, fmt.Errorf("%w: %s %q", ErrNotFound, entity.KindTTS, name)
	}
	path := filepath.Join(dir, layout.ContentName(name))
	written, err := fileutil.WriteReaderAtomic(path, r, fileMode)
	if err != nil {
		return 0, fmt.Errorf("store: write content %s: %w", path, err)
	}
	s.loggerFor(ctx, entity.KindTTS, name).Info("content replaced", logging.Int64("bytes", written))
	return written, nil
}
