package collection

import (
	"context"
	"errors"
	"testing"

	"bookkeep/internal/entity"
	"bookkeep/internal/logging"
)

type fakeBackend struct {
	items     []entity.Summary
	listCalls int
	deleteErr error
	deleted   []string
}

func (f *fakeBackend) ListEntities(_ context.Context, kind entity.Kind) ([]entity.Summary, error) {
	f.listCalls++
	out := make([]entity.Summary, 0, len(f.items))
	for _, item := range f.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeBackend) DeleteEntity(_ context.Context, _ entity.Kind, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func review(name string, tags ...string) entity.Summary {
	return entity.Summary{
		Kind:   entity.KindReview,
		Name:   name,
		Entity: &entity.Review{Description: "d", Tags: tags},
	}
}

func newCache(backend *fakeBackend) *Cache {
	return New(backend, entity.KindReview, logging.NewNop())
}

func TestItemsLoadsOnce(t *testing.T) {
	backend := &fakeBackend{items: []entity.Summary{review("Dune"), review("Emma")}}
	cache := newCache(backend)
	if cache.Loaded() {
		t.Fatal("expected cache empty before first use")
	}
	for range 3 {
		items, err := cache.Items(context.Background())
		if err != nil {
			t.Fatalf("Items: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
	}
	if backend.listCalls != 1 {
		t.Fatalf("expected one backend read, got %d", backend.listCalls)
	}

	backend.items = append(backend.items, review("Ulysses"))
	items, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(items) != 3 || backend.listCalls != 2 {
		t.Fatalf("expected refresh to reread, got %d items after %d calls", len(items), backend.listCalls)
	}

	cache.Invalidate()
	if cache.Loaded() {
		t.Fatal("expected invalidate to drop the list")
	}
	if _, err := cache.Items(context.Background()); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if backend.listCalls != 3 {
		t.Fatalf("expected reload after invalidate, got %d calls", backend.listCalls)
	}
}

func TestDeleteFailureKeepsMemory(t *testing.T) {
	backend := &fakeBackend{items: []entity.Summary{review("Dune"), review("Emma")}}
	cache := newCache(backend)
	if _, err := cache.Items(context.Background()); err != nil {
		t.Fatalf("Items: %v", err)
	}

	backend.deleteErr = errors.New("permission denied")
	if err := cache.Delete(context.Background(), "Dune"); err == nil {
		t.Fatal("expected delete error")
	}
	items, _ := cache.Items(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected list untouched after failed delete, got %d", len(items))
	}

	backend.deleteErr = nil
	if err := cache.Delete(context.Background(), "Dune"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, _ = cache.Items(context.Background())
	if len(items) != 1 || items[0].Name != "Emma" {
		t.Fatalf("unexpected items after delete %+v", items)
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != "Dune" {
		t.Fatalf("unexpected backend deletes %v", backend.deleted)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	cache := newCache(&fakeBackend{items: []entity.Summary{review("Dune")}})
	items, _ := cache.Items(context.Background())
	items[0].Name = "Changed"
	again, _ := cache.Items(context.Background())
	if again[0].Name != "Dune" {
		t.Fatal("caller mutation leaked into cache")
	}
}

func TestUpsert(t *testing.T) {
	cache := newCache(&fakeBackend{items: []entity.Summary{review("Dune"), review("Ulysses")}})
	cache.Upsert(review("Emma"))
	if cache.Loaded() {
		t.Fatal("upsert before load must not populate the cache")
	}

	if _, err := cache.Items(context.Background()); err != nil {
		t.Fatalf("Items: %v", err)
	}
	cache.Upsert(review("emma"))
	cache.Upsert(review("Dune", "updated"))

	items, _ := cache.Items(context.Background())
	names := []string{items[0].Name, items[1].Name, items[2].Name}
	if names[0] != "Dune" || names[1] != "emma" || names[2] != "Ulysses" {
		t.Fatalf("unexpected order %v", names)
	}
	if tags := items[0].Tags(); len(tags) != 1 || tags[0] != "updated" {
		t.Fatalf("expected replaced summary, got %v", tags)
	}
}
