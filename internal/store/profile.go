package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bookkeep/internal/entity"
	"bookkeep/internal/logging"
)

func (s *Store) profileSidecarPath() string {
	layout, _ := entity.LayoutFor(entity.KindProfile)
	return filepath.Join(s.profileDir(), layout.SidecarName(""))
}

func (s *Store) defaultProfile() *entity.Profile {
	profile := entity.NewProfile(s.now().Format(s.opts.DateLayout))
	profile.Username = s.opts.DefaultUsername
	return profile
}

func (s *Store) writeProfile(profile *entity.Profile) error {
	data, err := profile.Encode()
	if err != nil {
		return fmt.Errorf("store: encode profile: %w", err)
	}
	if err := os.MkdirAll(s.profileDir(), dirMode); err != nil {
		return fmt.Errorf("store: ensure profile directory: %w", err)
	}
	if err := s.writeFile(s.profileSidecarPath(), data, fileMode); err != nil {
		return fmt.Errorf("store: write profile: %w", err)
	}
	return nil
}

// LoadProfile returns the profile. A missing sidecar yields the default
// profile; a corrupt one yields defaults and a logged warning.
func (s *Store) LoadProfile(ctx context.Context) (*entity.Profile, error) {
	profile, _, err := s.loadProfile(ctx)
	return profile, err
}

// loadProfile is LoadProfile that also reports whether the sidecar was
// present but unreadable.
func (s *Store) loadProfile(ctx context.Context) (*entity.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	logger := s.loggerFor(ctx, entity.KindProfile, "")
	path := s.profileSidecarPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("profile sidecar missing; defaults used", logging.Path(path))
			return s.defaultProfile(), false, nil
		}
		return nil, false, fmt.Errorf("store: read profile: %w", err)
	}
	profile, decodeErr := entity.DecodeProfile(data)
	if decodeErr != nil {
		logging.WarnWithContext(logger, "profile sidecar corrupt; defaults used", "profile_decode_failed",
			logging.Path(path),
			logging.Error(decodeErr),
			logging.String(logging.FieldErrorHint, "run bookkeep profile reconcile to rebuild counters"),
			logging.String(logging.FieldImpact, "profile counters may be wrong"),
		)
	}
	return profile, decodeErr != nil, nil
}

// RenameProfile changes the profile username.
func (s *Store) RenameProfile(ctx context.Context, username string) (*entity.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is empty", ErrInvalidName)
	}
	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	profile.Username = username
	if err := s.writeProfile(profile); err != nil {
		return nil, err
	}
	s.loggerFor(ctx, entity.KindProfile, "").Info("profile renamed", logging.String("username", username))
	return profile, nil
}

// ReconcileProfile recomputes both counters from the collections: reviews is
// the number of review directories, goals completed is the number of goals
// already counted or currently complete. Complete goals not yet marked as
// counted are marked so later toggles do not count them again.
func (s *Store) ReconcileProfile(ctx context.Context) (*entity.Profile, error) {
	reviews, err := s.ListEntities(ctx, entity.KindReview)
	if err != nil {
		return nil, err
	}
	goals, err := s.ListEntities(ctx, entity.KindGoal)
	if err != nil {
		return nil, err
	}

	layout, _ := entity.LayoutFor(entity.KindGoal)
	completed := 0
	for _, summary := range goals {
		goal, ok := summary.Goal()
		if !ok {
			continue
		}
		if goal.Counted {
			completed++
			continue
		}
		if !goal.IsComplete() {
			continue
		}
		completed++
		goal.Counted = true
		if err := s.writeSidecar(layout, summary.Name, goal); err != nil {
			logging.WarnWithContext(s.loggerFor(ctx, entity.KindGoal, summary.Name),
				"goal not marked as counted", "reconcile_mark_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "toggling this goal may count it again"),
			)
		}
	}

	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	before := *profile
	profile.ReviewCount = len(reviews)
	profile.GoalsCompletedCount = completed
	if err := s.writeProfile(profile); err != nil {
		return nil, err
	}
	s.loggerFor(ctx, entity.KindProfile, "").Info("profile reconciled",
		logging.Int("reviews_before", before.ReviewCount),
		logging.Int("reviews", profile.ReviewCount),
		logging.Int("goals_before", before.GoalsCompletedCount),
		logging.Int("goals", profile.GoalsCompletedCount),
	)
	return profile, nil
}

// bumpProfile applies a counter change to the profile. Failures are logged
// only; the write that triggered the change has already succeeded. A corrupt
// sidecar is left in place for reconcile to rebuild.
func (s *Store) bumpProfile(ctx context.Context, event string, mutate func(*entity.Profile)) {
	logger := s.loggerFor(ctx, entity.KindProfile, "")
	profile, corrupt, err := s.loadProfile(ctx)
	switch {
	case err != nil:
	case corrupt:
		// Bumping defaults would overwrite the stored fields with blanks.
		err = errors.New("store: profile sidecar unreadable")
	default:
		mutate(profile)
		err = s.writeProfile(profile)
	}
	if err != nil {
		logging.WarnWithContext(logger, "profile counter not updated", "profile_update_failed",
			logging.String("trigger", event),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run bookkeep profile reconcile"),
			logging.String(logging.FieldImpact, "profile counters lag behind the collections"),
		)
		return
	}
	logger.Debug("profile counter updated",
		logging.String("trigger", event),
		logging.Int("reviews", profile.ReviewCount),
		logging.Int("goals_completed", profile.GoalsCompletedCount),
	)
}
