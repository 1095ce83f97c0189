package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"bookkeep/internal/entity"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckProfile verifies that the profile sidecar exists and decodes cleanly.
func CheckProfile(root string) Result {
	const name = "Profile"

	layout, err := entity.LayoutFor(entity.KindProfile)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	path := filepath.Join(root, layout.Collection, layout.SidecarName(""))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: "missing (run bookkeep init)"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("unreadable (%v)", err)}
	}
	profile, err := entity.DecodeProfile(data)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("corrupt sidecar, defaults in use (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s since %s", profile.Username, profile.InstallDate)}
}

// CheckLock reports whether another process currently holds the store lock.
func CheckLock(ctx context.Context, path string) Result {
	const name = "Store lock"

	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("lock check failed (%v)", err)}
	}
	if !ok {
		return Result{Name: name, Detail: "held by another bookkeep process"}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "available"}
}
