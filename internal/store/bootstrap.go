package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/logging"
)

// EnsureStorageInitialized creates the collection directories and the default
// profile when they are absent. Every step is best-effort: failures are logged
// and the remaining steps still run. Repeated calls change nothing.
func (s *Store) EnsureStorageInitialized(ctx context.Context) {
	logger := logging.WithContext(ctx, s.logger)

	for _, dir := range entity.CollectionDirs() {
		path := filepath.Join(s.root, dir)
		if err := os.MkdirAll(path, dirMode); err != nil {
			logging.WarnWithContext(logger, "collection directory not created", "bootstrap_mkdir_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check storage root permissions"),
				logging.String(logging.FieldImpact, "entities of this collection cannot be created"),
			)
			continue
		}
		s.sweepStaging(ctx, path)
	}

	s.ensureProfileImage(ctx)
	s.ensureProfileRecord(ctx)
}

func (s *Store) ensureProfileImage(ctx context.Context) {
	logger := s.loggerFor(ctx, entity.KindProfile, "")
	layout, _ := entity.LayoutFor(entity.KindProfile)
	dir := s.profileDir()
	for _, name := range layout.CoverNames("") {
		exists, err := fileutil.Exists(filepath.Join(dir, name))
		if err != nil {
			logging.WarnWithContext(logger, "profile image not inspected", "bootstrap_profile_image_failed",
				logging.Path(filepath.Join(dir, name)),
				logging.Error(err),
			)
			return
		}
		if exists {
			return
		}
	}
	path := filepath.Join(dir, layout.CoverBase("")+".png")
	if err := s.writeFile(path, entity.DefaultProfileImage(), fileMode); err != nil {
		logging.WarnWithContext(logger, "default profile image not written", "bootstrap_profile_image_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "profile shows the placeholder image"),
		)
		return
	}
	logger.Debug("default profile image written", logging.Path(path))
}

func (s *Store) ensureProfileRecord(ctx context.Context) {
	logger := s.loggerFor(ctx, entity.KindProfile, "")
	path := s.profileSidecarPath()
	exists, err := fileutil.Exists(path)
	if err != nil {
		logging.WarnWithContext(logger, "profile sidecar not inspected", "bootstrap_profile_failed",
			logging.Path(path),
			logging.Error(err),
		)
		return
	}
	if exists {
		return
	}
	profile := s.defaultProfile()
	if err := s.writeProfile(profile); err != nil {
		logging.WarnWithContext(logger, "default profile not written", "bootstrap_profile_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "profile falls back to defaults until the next start"),
		)
		return
	}
	logger.Info("profile created",
		logging.String("username", profile.Username),
		logging.String("install_date", profile.InstallDate),
	)
}

// sweepStaging removes staging and trash directories left behind by an
// interrupted create or delete.
func (s *Store) sweepStaging(ctx context.Context, collection string) {
	entries, err := os.ReadDir(collection)
	if err != nil {
		return
	}
	logger := logging.WithContext(ctx, s.logger)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.Contains(name, stagingInfix) && !strings.Contains(name, trashInfix) {
			continue
		}
		path := filepath.Join(collection, name)
		if err := s.removeAll(path); err != nil {
			logging.WarnWithContext(logger, "stale staging directory not removed", "bootstrap_sweep_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "hidden directory keeps using disk space"),
			)
			continue
		}
		logger.Debug("stale staging directory removed", logging.Path(path))
	}
}
