package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/logging"
	"bookkeep/internal/textutil"
)

// Candidate is a book offered by a search collaborator.
type Candidate struct {
	Name        string
	Description string
}

// newEntity describes everything written when an entity is created.
type newEntity struct {
	layout  entity.Layout
	name    string
	entity  entity.Entity
	cover   []byte
	content io.Reader
}

// CreateReview creates a review. A nil cover installs the placeholder image.
// Success bumps the profile review counter.
func (s *Store) CreateReview(ctx context.Context, name, description string, tags []string, cover []byte) (entity.Summary, error) {
	review := entity.NewReview()
	if strings.TrimSpace(description) != "" {
		review.Description = description
	}
	review.Tags = normalizeTags(tags)

	layout, err := s.collectionLayout(entity.KindReview)
	if err != nil {
		return entity.Summary{}, err
	}
	summary, err := s.create(ctx, newEntity{layout: layout, name: name, entity: review, cover: cover})
	if err != nil {
		return entity.Summary{}, err
	}
	s.bumpProfile(ctx, "review_created", func(p *entity.Profile) { p.ReviewCount++ })
	return summary, nil
}

// CreateGoal creates a goal over books, all initially unread.
func (s *Store) CreateGoal(ctx context.Context, name string, books []string, start, end time.Time, cover []byte) (entity.Summary, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return entity.Summary{}, fmt.Errorf("%w: %s before %s", ErrInvalidDates, entity.FormatDate(end), entity.FormatDate(start))
	}
	goal := entity.NewGoal()
	goal.StartDate = start
	goal.EndDate = end
	seen := make(map[string]struct{}, len(books))
	for _, book := range books {
		book = strings.TrimSpace(book)
		if book == "" {
			continue
		}
		if _, dup := seen[book]; dup {
			continue
		}
		seen[book] = struct{}{}
		goal.Books = append(goal.Books, entity.BookEntry{Name: book})
	}

	layout, err := s.collectionLayout(entity.KindGoal)
	if err != nil {
		return entity.Summary{}, err
	}
	return s.create(ctx, newEntity{layout: layout, name: name, entity: goal, cover: cover})
}

// CreateTTSBook creates a TTS book with its content. A nil content reader
// creates the book without a content file.
func (s *Store) CreateTTSBook(ctx context.Context, name, description string, content io.Reader, cover []byte) (entity.Summary, error) {
	book := entity.NewTTSBook()
	if strings.TrimSpace(description) != "" {
		book.Description = description
	}
	layout, err := s.collectionLayout(entity.KindTTS)
	if err != nil {
		return entity.Summary{}, err
	}
	return s.create(ctx, newEntity{layout: layout, name: name, entity: book, cover: cover, content: content})
}

// CreateFromCandidate creates a review or TTS book from a search result. The
// candidate title is sanitized into a directory name first.
func (s *Store) CreateFromCandidate(ctx context.Context, kind entity.Kind, candidate Candidate, cover []byte) (entity.Summary, error) {
	name := textutil.SanitizeName(candidate.Name)
	switch kind {
	case entity.KindReview:
		return s.CreateReview(ctx, name, candidate.Description, nil, cover)
	case entity.KindTTS:
		return s.CreateTTSBook(ctx, name, candidate.Description, nil, cover)
	default:
		return entity.Summary{}, fmt.Errorf("%w: cannot create %s from a search result", ErrKind, kind)
	}
}

// create assembles the entity in a hidden staging directory and renames it
// into place, so the collection never shows a partially written entity.
func (s *Store) create(ctx context.Context, spec newEntity) (entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return entity.Summary{}, err
	}
	if err := ValidateName(spec.name); err != nil {
		return entity.Summary{}, err
	}
	kind := spec.layout.Kind
	collection := filepath.Join(s.root, spec.layout.Collection)
	if err := os.MkdirAll(collection, dirMode); err != nil {
		return entity.Summary{}, fmt.Errorf("store: ensure %s: %w", spec.layout.Collection, err)
	}
	final := filepath.Join(collection, spec.name)
	exists, err := fileutil.Exists(final)
	if err != nil {
		return entity.Summary{}, fmt.Errorf("store: inspect %s: %w", final, err)
	}
	if exists {
		return entity.Summary{}, fmt.Errorf("%w: %s %q", ErrExists, kind, spec.name)
	}

	cover := spec.cover
	if cover == nil {
		cover = entity.PlaceholderImage()
	}
	info, err := entity.InspectImage(bytes.NewReader(cover))
	if err != nil {
		return entity.Summary{}, err
	}

	staging := filepath.Join(collection, "."+spec.name+stagingInfix+s.newID())
	if err := os.Mkdir(staging, dirMode); err != nil {
		return entity.Summary{}, fmt.Errorf("store: create staging directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.removeAll(staging)
		}
	}()

	coverPath := filepath.Join(staging, spec.layout.CoverBase(spec.name)+info.Ext())
	if err := s.writeFile(coverPath, cover, fileMode); err != nil {
		return entity.Summary{}, fmt.Errorf("store: write cover: %w", err)
	}
	data, err := spec.entity.Encode()
	if err != nil {
		return entity.Summary{}, fmt.Errorf("store: encode %s %q: %w", kind, spec.name, err)
	}
	if err := s.writeFile(filepath.Join(staging, spec.layout.SidecarName(spec.name)), data, fileMode); err != nil {
		return entity.Summary{}, fmt.Errorf("store: write sidecar: %w", err)
	}
	if spec.content != nil {
		contentName := spec.layout.ContentName(spec.name)
		if contentName == "" {
			return entity.Summary{}, fmt.Errorf("%w: %s has no content file", ErrKind, kind)
		}
		if _, err := fileutil.WriteReaderAtomic(filepath.Join(staging, contentName), spec.content, fileMode); err != nil {
			return entity.Summary{}, fmt.Errorf("store: write content: %w", err)
		}
	}

	if err := s.rename(staging, final); err != nil {
		if errors.Is(err, os.ErrExist) {
			return entity.Summary{}, fmt.Errorf("%w: %s %q", ErrExists, kind, spec.name)
		}
		return entity.Summary{}, fmt.Errorf("store: commit %s %q: %w", kind, spec.name, err)
	}
	committed = true

	s.loggerFor(ctx, kind, spec.name).Info("entity created",
		logging.Bool("placeholder_cover", spec.cover == nil),
		logging.Bool("content", spec.content != nil),
	)
	return s.loadSummary(ctx, spec.layout, spec.name), nil
}

// normalizeTags trims tags and drops empty and repeated ones, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
