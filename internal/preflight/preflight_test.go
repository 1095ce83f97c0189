package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"bookkeep/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckProfile(t *testing.T) {
	root := t.TempDir()
	if result := CheckProfile(root); result.Passed {
		t.Fatal("expected failure for missing profile")
	}

	dir := filepath.Join(root, "BookKeepProfile")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	sidecar := filepath.Join(dir, "profile_data.json")
	if err := os.WriteFile(sidecar, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckProfile(root); result.Passed {
		t.Fatal("expected failure for corrupt profile")
	}

	if err := os.WriteFile(sidecar, []byte(`{"username":"Ann","date":"Jan 9, 2025","reviews":0,"goalsc":0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckProfile(root)
	if !result.Passed || result.Detail != "Ann since Jan 9, 2025" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	if result := CheckLock(context.Background(), path); !result.Passed {
		t.Fatalf("expected free lock, got %s", result.Detail)
	}

	held := flock.New(path)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: %v", err)
	}
	defer held.Unlock()

	if result := CheckLock(context.Background(), path); result.Passed {
		t.Fatal("expected held lock to fail the check")
	}
}

func TestRunAllStopsAtMissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Root = filepath.Join(t.TempDir(), "absent")
	results := RunAll(context.Background(), &cfg)
	if len(results) != 1 || results[0].Passed {
		t.Fatalf("expected single failing result, got %+v", results)
	}
	if !Failed(results) {
		t.Fatal("expected Failed to report true")
	}
}

func TestRunAllChecksCollections(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Root = t.TempDir()
	cfg.Storage.Lock = false
	for _, dir := range []string{"BookKeepGoals", "BookKeepReviews", "BookKeepTTSBooks"} {
		if err := os.MkdirAll(filepath.Join(cfg.Storage.Root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	results := RunAll(context.Background(), &cfg)
	// root + four collections + profile
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d: %+v", len(results), results)
	}
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	// profile directory and sidecar are both missing
	if failed != 2 {
		t.Fatalf("expected 2 failures, got %d: %+v", failed, results)
	}
}
