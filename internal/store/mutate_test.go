package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookkeep/internal/entity"
	"bookkeep/internal/testsupport"
)

func loadProfile(t *testing.T, s *Store) *entity.Profile {
	t.Helper()

	profile, err := s.LoadProfile(context.Background())
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	return profile
}

func TestGoalCompletionCountsOnce(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateGoal(ctx, "Summer", []string{"Dune", "Emma"}, fixedNow, fixedNow.AddDate(0, 3, 0), nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	goal, err := s.ToggleGoalBook(ctx, "Summer", "Dune", true)
	if err != nil {
		t.Fatalf("ToggleGoalBook: %v", err)
	}
	if goal.Completed != 0.5 {
		t.Fatalf("expected half progress, got %v", goal.Completed)
	}
	if got := loadProfile(t, s).GoalsCompletedCount; got != 0 {
		t.Fatalf("expected no completion yet, got %d", got)
	}

	if _, err := s.ToggleGoalBook(ctx, "Summer", "Emma", true); err != nil {
		t.Fatalf("ToggleGoalBook: %v", err)
	}
	if got := loadProfile(t, s).GoalsCompletedCount; got != 1 {
		t.Fatalf("expected one completion, got %d", got)
	}

	if _, err := s.ToggleGoalBook(ctx, "Summer", "Emma", false); err != nil {
		t.Fatalf("ToggleGoalBook: %v", err)
	}
	goal, err = s.ToggleGoalBook(ctx, "Summer", "Emma", true)
	if err != nil {
		t.Fatalf("ToggleGoalBook: %v", err)
	}
	if got := loadProfile(t, s).GoalsCompletedCount; got != 1 {
		t.Fatalf("expected completion counted once, got %d", got)
	}
	if !goal.Counted || goal.Completed != 1 {
		t.Fatalf("unexpected goal state %+v", goal)
	}

	summary, err := s.LoadEntity(ctx, entity.KindGoal, "Summer")
	if err != nil {
		t.Fatalf("LoadEntity: %v", err)
	}
	persisted, _ := summary.Goal()
	if !persisted.Counted || persisted.Completed != 1 {
		t.Fatalf("expected counted flag persisted, got %+v", persisted)
	}
}

func TestSaveEntityKeepsPersistedCountedFlag(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	end := fixedNow.AddDate(0, 3, 0)
	if _, err := s.CreateGoal(ctx, "Summer", []string{"Dune", "Emma"}, fixedNow, end, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	for _, book := range []string{"Dune", "Emma"} {
		if _, err := s.ToggleGoalBook(ctx, "Summer", book, true); err != nil {
			t.Fatalf("ToggleGoalBook %s: %v", book, err)
		}
	}

	// Callers building a goal from scratch do not know about the flag.
	reopened := &entity.Goal{
		Books:     []entity.BookEntry{{Name: "Dune", Status: true}, {Name: "Emma"}},
		StartDate: fixedNow,
		EndDate:   end,
	}
	if err := s.SaveEntity(ctx, "Summer", reopened); err != nil {
		t.Fatalf("SaveEntity: %v", err)
	}
	finished := &entity.Goal{
		Books:     []entity.BookEntry{{Name: "Dune", Status: true}, {Name: "Emma", Status: true}},
		StartDate: fixedNow,
		EndDate:   end,
	}
	if err := s.SaveEntity(ctx, "Summer", finished); err != nil {
		t.Fatalf("SaveEntity: %v", err)
	}

	if got := loadProfile(t, s).GoalsCompletedCount; got != 1 {
		t.Fatalf("expected a single completion, got %d", got)
	}
	summary, err := s.LoadEntity(ctx, entity.KindGoal, "Summer")
	if err != nil {
		t.Fatalf("LoadEntity: %v", err)
	}
	persisted, _ := summary.Goal()
	if !persisted.Counted {
		t.Fatalf("expected counted flag kept, got %+v", persisted)
	}
}

func TestProfileWriteFailureDoesNotUndoGoalSave(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateGoal(ctx, "Solo", []string{"Dune"}, fixedNow, fixedNow, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	write := s.writeFile
	s.writeFile = func(path string, data []byte, mode os.FileMode) error {
		if filepath.Base(path) == "profile_data.json" {
			return errors.New("read-only profile")
		}
		return write(path, data, mode)
	}

	if _, err := s.ToggleGoalBook(ctx, "Solo", "Dune", true); err != nil {
		t.Fatalf("expected goal save to succeed despite profile failure, got %v", err)
	}
	summary, err := s.LoadEntity(ctx, entity.KindGoal, "Solo")
	if err != nil {
		t.Fatalf("LoadEntity: %v", err)
	}
	goal, _ := summary.Goal()
	if !goal.Books[0].Status || goal.Completed != 1 {
		t.Fatalf("expected primary write persisted, got %+v", goal)
	}
	if got := loadProfile(t, s).GoalsCompletedCount; got != 0 {
		t.Fatalf("expected profile unchanged, got %d", got)
	}

	s.writeFile = write
	profile, err := s.ReconcileProfile(ctx)
	if err != nil {
		t.Fatalf("ReconcileProfile: %v", err)
	}
	if profile.GoalsCompletedCount != 1 {
		t.Fatalf("expected reconcile to repair the counter, got %d", profile.GoalsCompletedCount)
	}
}

func TestProfileWriteFailureDoesNotUndoReviewCreate(t *testing.T) {
	s := initializedStore(t)
	write := s.writeFile
	s.writeFile = func(path string, data []byte, mode os.FileMode) error {
		if filepath.Base(path) == "profile_data.json" {
			return errors.New("read-only profile")
		}
		return write(path, data, mode)
	}
	if _, err := s.CreateReview(context.Background(), "Dune", "", nil, nil); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if got := loadProfile(t, s).ReviewCount; got != 0 {
		t.Fatalf("expected profile unchanged, got %d", got)
	}
}

func TestSaveEntityFailureKeepsGoalUncounted(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateGoal(ctx, "Solo", []string{"Dune"}, fixedNow, fixedNow, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	goal, err := s.loadGoal(ctx, "Solo")
	if err != nil {
		t.Fatalf("loadGoal: %v", err)
	}
	goal.Books[0].Status = true

	s.writeFile = func(string, []byte, os.FileMode) error { return errors.New("disk full") }
	if err := s.SaveEntity(ctx, "Solo", goal); err == nil {
		t.Fatal("expected save error")
	}
	if goal.Counted {
		t.Fatal("expected counted flag reverted after failed save")
	}
}

func TestSaveEntityErrors(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if err := s.SaveEntity(ctx, "Missing", entity.NewReview()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveEntity(ctx, "", entity.NewReview()); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := s.SaveEntity(ctx, "x", entity.NewProfile("")); !errors.Is(err, ErrKind) {
		t.Fatalf("expected ErrKind, got %v", err)
	}
	if err := s.SaveEntity(ctx, "x", nil); err == nil {
		t.Fatal("expected error for nil entity")
	}
}

func TestSaveEntityLeavesCoverAndContent(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	cover := testsupport.PNG(t, 3, 3)
	summary, err := s.CreateTTSBook(ctx, "Dune", "Author: Frank Herbert", strings.NewReader("%PDF-1.4 body"), cover)
	if err != nil {
		t.Fatalf("CreateTTSBook: %v", err)
	}
	if summary.ContentPath == "" {
		t.Fatal("expected content path")
	}

	book, err := s.SetReadingPage(ctx, "Dune", 42)
	if err != nil {
		t.Fatalf("SetReadingPage: %v", err)
	}
	if book.PageNumber != 42 {
		t.Fatalf("unexpected page %d", book.PageNumber)
	}
	if got := testsupport.ReadFile(t, summary.Cover.Path); !bytes.Equal(got, cover) {
		t.Fatal("cover rewritten by save")
	}
	if got := testsupport.ReadFile(t, summary.ContentPath); string(got) != "%PDF-1.4 body" {
		t.Fatalf("content rewritten by save: %q", got)
	}
	sidecar := testsupport.ReadFile(t, filepath.Join(summary.Dir, "Dune_data.json"))
	if !strings.Contains(string(sidecar), `"pageNumber": 42`) {
		t.Fatalf("unexpected sidecar %s", sidecar)
	}

	book, err = s.SetReadingPage(ctx, "Dune", -3)
	if err != nil {
		t.Fatalf("SetReadingPage: %v", err)
	}
	if book.PageNumber != 0 {
		t.Fatalf("expected negative page clamped, got %d", book.PageNumber)
	}
}

func TestDeleteEntityFailureLeavesDirectory(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateReview(ctx, "Dune", "", nil, nil); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	before, err := s.ListEntities(ctx, entity.KindReview)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}

	s.rename = func(string, string) error { return os.ErrPermission }
	if err := s.DeleteEntity(ctx, entity.KindReview, "Dune"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "BookKeepReviews", "Dune", "dune_data.json")); err != nil {
		t.Fatalf("expected entity intact after failed delete: %v", err)
	}
	after, err := s.ListEntities(ctx, entity.KindReview)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected %d entities, got %d", len(before), len(after))
	}
}

func TestDeleteEntityPurgeFailureHidesEntity(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateReview(ctx, "Dune", "", nil, nil); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	removeAll := s.removeAll
	s.removeAll = func(string) error { return errors.New("busy") }

	if err := s.DeleteEntity(ctx, entity.KindReview, "Dune"); err != nil {
		t.Fatalf("DeleteEntity: %v", err)
	}
	summaries, err := s.ListEntities(ctx, entity.KindReview)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected deleted entity hidden, got %d", len(summaries))
	}

	s.removeAll = removeAll
	s.EnsureStorageInitialized(ctx)
	if names := testsupport.ListDir(t, filepath.Join(s.Root(), "BookKeepReviews")); len(names) != 0 {
		t.Fatalf("expected trash swept, got %v", names)
	}
}

func TestDeleteEntityMissing(t *testing.T) {
	s := initializedStore(t)
	if err := s.DeleteEntity(context.Background(), entity.KindGoal, "Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteEntity(context.Background(), entity.KindProfile, "x"); !errors.Is(err, ErrKind) {
		t.Fatalf("expected ErrKind, got %v", err)
	}
}

func TestAddGoalBookAndToggleUnknown(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateGoal(ctx, "Winter", nil, fixedNow, fixedNow, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	goal, err := s.AddGoalBook(ctx, "Winter", "Emma")
	if err != nil {
		t.Fatalf("AddGoalBook: %v", err)
	}
	if len(goal.Books) != 1 || goal.Books[0].Status {
		t.Fatalf("unexpected books %+v", goal.Books)
	}
	if _, err := s.AddGoalBook(ctx, "Winter", "Emma"); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.ToggleGoalBook(ctx, "Winter", "Dune", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReview(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateReview(ctx, "Dune", "first", []string{"a"}, nil); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	review, err := s.UpdateReview(ctx, "Dune", "", []string{" b ", "b", "c"})
	if err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if review.Description != "first" || len(review.Tags) != 2 || review.Tags[0] != "b" || review.Tags[1] != "c" {
		t.Fatalf("unexpected review %+v", review)
	}
	review, err = s.UpdateReview(ctx, "Dune", "second", nil)
	if err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if review.Description != "second" || len(review.Tags) != 2 {
		t.Fatalf("unexpected review %+v", review)
	}
}

func TestReplaceCoverSwitchesFormat(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateGoal(ctx, "Summer", []string{"x"}, fixedNow, fixedNow, nil); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	dir := filepath.Join(s.Root(), "BookKeepGoals", "Summer")
	if _, err := os.Stat(filepath.Join(dir, "summer.png")); err != nil {
		t.Fatalf("expected placeholder cover: %v", err)
	}

	if err := s.ReplaceCover(ctx, entity.KindGoal, "Summer", testsupport.JPEG(t, 5, 5)); err != nil {
		t.Fatalf("ReplaceCover: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "summer.png")); !os.IsNotExist(err) {
		t.Fatalf("expected stale png removed, stat err=%v", err)
	}
	summary, err := s.LoadEntity(ctx, entity.KindGoal, "Summer")
	if err != nil {
		t.Fatalf("LoadEntity: %v", err)
	}
	if summary.Cover.Format != "jpeg" || summary.Cover.Path != filepath.Join(dir, "summer.jpg") {
		t.Fatalf("unexpected cover %+v", summary.Cover)
	}

	if err := s.ReplaceCover(ctx, entity.KindGoal, "Summer", []byte("gif?")); !errors.Is(err, entity.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if err := s.ReplaceCover(ctx, entity.KindGoal, "Nope", testsupport.PNG(t, 1, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceContent(t *testing.T) {
	s := initializedStore(t)
	ctx := context.Background()
	if _, err := s.CreateTTSBook(ctx, "Dune", "", nil, nil); err != nil {
		t.Fatalf("CreateTTSBook: %v", err)
	}
	n, err := s.ReplaceContent(ctx, "Dune", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("ReplaceContent: %v", err)
	}
	if n != 8 {
		t.Fatalf("unexpected byte count %d", n)
	}
	summary, err := s.LoadEntity(ctx, entity.KindTTS, "Dune")
	if err != nil {
		t.Fatalf("LoadEntity: %v", err)
	}
	if summary.ContentPath != filepath.Join(s.Root(), "BookKeepTTSBooks", "Dune", "Dune.pdf") {
		t.Fatalf("unexpected content path %q", summary.ContentPath)
	}
	if _, err := s.ReplaceContent(ctx, "Nope", strings.NewReader("x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
