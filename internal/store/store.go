package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bookkeep/internal/config"
	"bookkeep/internal/entity"
	"bookkeep/internal/fileutil"
	"bookkeep/internal/logging"
	"bookkeep/internal/preflight"
)

var (
	// ErrStorageRoot means the storage root is missing or inaccessible.
	ErrStorageRoot = errors.New("store: storage root unavailable")
	// ErrLocked means another process holds the store lock.
	ErrLocked = errors.New("store: storage root locked by another process")
	// ErrNotFound means the named entity does not exist.
	ErrNotFound = errors.New("store: entity not found")
	// ErrExists means an entity with that name already exists.
	ErrExists = errors.New("store: entity already exists")
	// ErrInvalidName means the name cannot be used as a directory name.
	ErrInvalidName = errors.New("store: invalid entity name")
	// ErrKind means the operation does not apply to that entity kind.
	ErrKind = errors.New("store: operation not supported for entity kind")
	// ErrInvalidDates means a goal ends before it starts.
	ErrInvalidDates = errors.New("store: goal end date precedes start date")
)

const (
	fileMode     = 0o644
	dirMode      = 0o755
	stagingInfix = ".tmp-"
	trashInfix   = ".trash-"
)

// Options tunes a Store.
type Options struct {
	// Lock takes an exclusive advisory lock on the root for the store's lifetime.
	Lock bool
	// DefaultUsername is written to a newly created profile.
	DefaultUsername string
	// DateLayout formats the profile install date.
	DateLayout string
}

// OptionsFromConfig maps configuration onto store options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return Options{
		Lock:            cfg.Storage.Lock,
		DefaultUsername: cfg.Profile.DefaultUsername,
		DateLayout:      cfg.Profile.DateLayout,
	}
}

// Store reads and writes entities under one storage root.
type Store struct {
	root   string
	opts   Options
	logger *slog.Logger
	lock   *flock.Flock

	// Filesystem hooks replaced by tests to inject failures.
	writeFile func(path string, data []byte, mode os.FileMode) error
	rename    func(oldpath, newpath string) error
	removeAll func(path string) error
	now       func() time.Time
	newID     func() string
}

// Open prepares the storage root and returns a store bound to it. The root
// is created when absent; a root that cannot be read, written and traversed
// yields ErrStorageRoot.
func Open(root string, logger *slog.Logger, opts Options) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("%w: root path is empty", ErrStorageRoot)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRoot, err)
	}
	if err := os.MkdirAll(abs, dirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRoot, err)
	}
	if check := preflight.CheckDirectoryAccess("Storage root", abs); !check.Passed {
		return nil, fmt.Errorf("%w: %s", ErrStorageRoot, check.Detail)
	}

	if strings.TrimSpace(opts.DefaultUsername) == "" {
		opts.DefaultUsername = entity.DefaultUsername
	}
	if strings.TrimSpace(opts.DateLayout) == "" {
		opts.DateLayout = config.Default().Profile.DateLayout
	}

	s := &Store{
		root:      abs,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "store"),
		writeFile: fileutil.WriteFileAtomic,
		rename:    os.Rename,
		removeAll: os.RemoveAll,
		now:       time.Now,
		newID:     uuid.NewString,
	}

	if opts.Lock {
		lockPath := filepath.Join(abs, preflight.LockFileName)
		lock := flock.New(lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("store: acquire lock %s: %w", lockPath, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		s.lock = lock
	}

	s.logger.Debug("store opened",
		logging.Path(abs),
		logging.Bool("locked", s.lock != nil),
	)
	return s, nil
}

// Close releases the store lock, if held.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	err := s.lock.Unlock()
	s.lock = nil
	if err != nil {
		return fmt.Errorf("store: release lock: %w", err)
	}
	return nil
}

// Root returns the absolute storage root.
func (s *Store) Root() string {
	return s.root
}

// CollectionPath returns the directory holding entities of kind.
func (s *Store) CollectionPath(kind entity.Kind) (string, error) {
	layout, err := entity.LayoutFor(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKind, err)
	}
	return filepath.Join(s.root, layout.Collection), nil
}

func (s *Store) collectionLayout(kind entity.Kind) (entity.Layout, error) {
	layout, err := entity.LayoutFor(kind)
	if err != nil {
		return entity.Layout{}, fmt.Errorf("%w: %w", ErrKind, err)
	}
	if layout.Singleton {
		return entity.Layout{}, fmt.Errorf("%w: %s is a singleton", ErrKind, kind)
	}
	return layout, nil
}

func (s *Store) entityDir(layout entity.Layout, name string) string {
	return filepath.Join(s.root, layout.Collection, name)
}

func (s *Store) profileDir() string {
	layout, _ := entity.LayoutFor(entity.KindProfile)
	return filepath.Join(s.root, layout.Collection)
}

func (s *Store) loggerFor(ctx context.Context, kind entity.Kind, name string) *slog.Logger {
	ctx = logging.WithCollection(ctx, kind.Plural())
	ctx = logging.WithEntity(ctx, name)
	return logging.WithContext(ctx, s.logger)
}

// maxNameBytes keeps staging directories and sidecar temp files within the
// usual 255 byte file name limit.
const maxNameBytes = 200

// ValidateName rejects names that cannot serve as a single directory name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case len(name) > maxNameBytes:
		return fmt.Errorf("%w: name is longer than %d bytes", ErrInvalidName, maxNameBytes)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// isHousekeeping reports whether a collection child is noise rather than an
// entity: dot files such as .DS_Store plus staging and trash directories.
func isHousekeeping(name string) bool {
	return strings.HasPrefix(name, ".")
}
