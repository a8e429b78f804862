// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/platform"
	"github.com/easelstudio/easelboot/pkg/fspath"
	pkgplatform "github.com/easelstudio/easelboot/pkg/platform"
	"github.com/easelstudio/easelboot/pkg/types"
)

// BasePathCheck validates the installation root directory: it must exist,
// be readable and writable, and must not live inside the application's own
// install directory, where an application update would wipe it.
type BasePathCheck struct {
	// Executable returns the running binary's path. Defaults to
	// os.Executable; tests override it to place the install root.
	Executable func() (string, error)
	// GOOS overrides platform detection in tests. Empty means runtime.GOOS.
	GOOS string
}

// NewBasePathCheck creates a BasePathCheck backed by os.Executable.
func NewBasePathCheck() *BasePathCheck {
	return &BasePathCheck{Executable: os.Executable}
}

// Name implements Check.
func (c *BasePathCheck) Name() ItemName { return ItemBasePath }

// Run implements Check. The containment test runs first and fires
// regardless of whether the directory exists: a base path aliased into the
// install root is a data-loss hazard even before anything is written there.
func (c *BasePathCheck) Run(_ context.Context, inst config.Installation) Item {
	base := inst.BasePath

	if inside, root := c.insideInstallRoot(base); inside {
		return errItem(ItemBasePath, fmt.Sprintf(
			"base path %s is inside the application install directory %s; application updates would erase it",
			base, root))
	}

	info, err := os.Stat(base.String())
	if err != nil {
		return errItem(ItemBasePath, fmt.Sprintf("base path %s does not exist", base))
	}
	if !info.IsDir() {
		return errItem(ItemBasePath, fmt.Sprintf("base path %s is not a directory", base))
	}

	if _, err := os.ReadDir(base.String()); err != nil {
		return errItem(ItemBasePath, fmt.Sprintf("base path %s is not readable: %v", base, err))
	}
	if err := probeWritable(base); err != nil {
		return errItem(ItemBasePath, fmt.Sprintf("base path %s is not writable: %v", base, err))
	}

	if c.goos() == pkgplatform.Windows {
		if comp := platform.ReservedPathComponent(base.String()); comp != "" {
			return warn(ItemBasePath, fmt.Sprintf(
				"base path contains the Windows reserved name %q; some file operations will misbehave", comp))
		}
	}

	return ok(ItemBasePath, "")
}

// insideInstallRoot reports whether base lies inside (or equals) the
// directory holding the running executable. Both sides are resolved
// through symlinks first, so an aliased path cannot dodge the comparison;
// paths that cannot be resolved fall back to lexical cleaning.
func (c *BasePathCheck) insideInstallRoot(base types.FilesystemPath) (bool, types.FilesystemPath) {
	executable := os.Executable
	if c.Executable != nil {
		executable = c.Executable
	}

	exe, err := executable()
	if err != nil {
		// Without a self path there is no install root to compare against.
		return false, ""
	}

	root, _ := fspath.Resolve(fspath.Dir(types.FilesystemPath(exe)))

	abs, err := fspath.Abs(base)
	if err != nil {
		abs = base
	}
	resolved, _ := fspath.Resolve(abs)

	return fspath.Within(resolved, root), root
}

// probeWritable verifies write access by creating and removing a scratch
// file. Stat-based permission bits lie on network shares and ACL systems;
// an actual write does not.
func probeWritable(base types.FilesystemPath) error {
	f, err := os.CreateTemp(base.String(), ".easelboot-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}

func (c *BasePathCheck) goos() string {
	if c.GOOS != "" {
		return c.GOOS
	}
	return runtime.GOOS
}
