// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/pkg/platform"
)

// vcRuntimeLibrary is the Microsoft C++ runtime the bundled interpreter
// links against on Windows.
const vcRuntimeLibrary = "vcruntime140.dll"

type (
	// GitCheck validates that a working git client answers on the search
	// path. Extensions are git repositories; without the client they can
	// neither be installed nor updated.
	GitCheck struct {
		// Prober runs the availability probe. Required.
		Prober Prober
	}

	// SystemLibraryCheck validates the Windows C++ runtime library the
	// bundled Python interpreter needs. On every other platform the check
	// is skipped entirely.
	SystemLibraryCheck struct {
		// GOOS overrides platform detection in tests.
		GOOS string
		// SystemDir overrides the Windows system directory lookup in tests.
		SystemDir string
	}
)

// Name implements Check.
func (c *GitCheck) Name() ItemName { return ItemGit }

// Run implements Check. A probe failure is a validation error, never an
// exception: the absent tool is exactly the condition being diagnosed.
func (c *GitCheck) Run(ctx context.Context, _ config.Installation) Item {
	if !c.Prober.Probe(ctx, "git --version") {
		return errItem(ItemGit, "git is not available on the search path")
	}
	return ok(ItemGit, "")
}

// Name implements Check.
func (c *SystemLibraryCheck) Name() ItemName { return ItemVCRedist }

// Run implements Check.
func (c *SystemLibraryCheck) Run(_ context.Context, _ config.Installation) Item {
	if c.goos() != platform.Windows {
		return skip(ItemVCRedist, "only required on Windows")
	}

	library := filepath.Join(c.systemDir(), vcRuntimeLibrary)
	if _, err := os.Stat(library); err != nil {
		return errItem(ItemVCRedist, fmt.Sprintf(
			"%s is not accessible; install the Microsoft Visual C++ Redistributable", library))
	}
	return ok(ItemVCRedist, "")
}

func (c *SystemLibraryCheck) goos() string {
	if c.GOOS != "" {
		return c.GOOS
	}
	return runtime.GOOS
}

func (c *SystemLibraryCheck) systemDir() string {
	if c.SystemDir != "" {
		return c.SystemDir
	}
	if root := os.Getenv("SystemRoot"); root != "" {
		return filepath.Join(root, "System32")
	}
	return `C:\Windows\System32`
}
