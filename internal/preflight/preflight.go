package preflight

import (
	"context"
	"path/filepath"

	"bookkeep/internal/config"
	"bookkeep/internal/entity"
)

// LockFileName is the advisory lock file created inside the storage root.
const LockFileName = ".bookkeep.lock"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	root := cfg.Storage.Root
	results := []Result{CheckDirectoryAccess("Storage root", root)}
	if !results[0].Passed {
		return results
	}

	for _, kind := range []entity.Kind{entity.KindGoal, entity.KindReview, entity.KindTTS, entity.KindProfile} {
		layout, err := entity.LayoutFor(kind)
		if err != nil {
			continue
		}
		results = append(results, CheckDirectoryAccess(layout.Collection, filepath.Join(root, layout.Collection)))
	}
	results = append(results, CheckProfile(root))

	if cfg.Storage.Lock {
		results = append(results, CheckLock(ctx, filepath.Join(root, LockFileName)))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
