// Package collection holds an in-memory view of one entity collection.
//
// A Cache loads on first use and keeps its list until Refresh or Invalidate
// is called. Deletion goes to disk first and touches memory only after the
// backend reports success, so a failed delete never hides an entity that is
// still on disk.
package collection

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"bookkeep/internal/entity"
	"bookkeep/internal/logging"
)

// Backend is the part of the store a Cache needs.
type Backend interface {
	ListEntities(ctx context.Context, kind entity.Kind) ([]entity.Summary, error)
	DeleteEntity(ctx context.Context, kind entity.Kind, name string) error
}

// Cache is a lazily loaded list of one collection's summaries.
type Cache struct {
	backend Backend
	kind    entity.Kind
	logger  *slog.Logger

	mu     sync.Mutex
	items  []entity.Summary
	loaded bool
}

// New returns an empty cache over kind.
func New(backend Backend, kind entity.Kind, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "collection").With(logging.String(logging.FieldCollection, kind.Plural()))
	return &Cache{backend: backend, kind: kind, logger: logger}
}

// Kind returns the cached collection kind.
func (c *Cache) Kind() entity.Kind {
	return c.kind
}

// Items returns the cached summaries, loading them on first use. The
// returned slice is a copy.
func (c *Cache) Items(ctx context.Context) ([]entity.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		if err := c.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}
	return slices.Clone(c.items), nil
}

// Refresh re-reads the collection from disk.
func (c *Cache) Refresh(ctx context.Context) ([]entity.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.items), nil
}

// Invalidate drops the cached list; the next Items call reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loaded = false
}

// Loaded reports whether the cache currently holds a list.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Cache) reloadLocked(ctx context.Context) error {
	items, err := c.backend.ListEntities(ctx, c.kind)
	if err != nil {
		return err
	}
	c.items = items
	c.loaded = true
	c.logger.Debug("collection loaded", logging.Int("count", len(items)))
	return nil
}

// Delete removes the named entity on disk, then from the cached list. On
// error the cached list is left untouched.
func (c *Cache) Delete(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backend.DeleteEntity(ctx, c.kind, name); err != nil {
		return err
	}
	c.items = slices.DeleteFunc(c.items, func(s entity.Summary) bool { return s.Name == name })
	return nil
}

// Upsert replaces the cached summary with the same name, or inserts it in
// name order. It is a no-op before the first load.
func (c *Cache) Upsert(summary entity.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	if idx := slices.IndexFunc(c.items, func(s entity.Summary) bool { return s.Name == summary.Name }); idx >= 0 {
		c.items[idx] = summary
		return
	}
	idx, _ := slices.BinarySearchFunc(c.items, summary, compareNames)
	c.items = slices.Insert(c.items, idx, summary)
}

func compareNames(a, b entity.Summary) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// Filter returns the cached summaries matching every term. Empty terms
// return everything.
func (c *Cache) Filter(ctx context.Context, terms []string) ([]entity.Summary, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(items, terms), nil
}
