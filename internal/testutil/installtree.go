// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// DefaultPyproject is the manifest content BuildInstallTree writes when no
// override is given. It parses as TOML and declares a project name, which is
// what the runtime completeness check looks for.
const DefaultPyproject = `[project]
name = "easel-studio"
version = "3.2.0"
requires-python = ">=3.11"
`

type (
	// installTree accumulates the layout options before building.
	installTree struct {
		venv       bool
		manifests  bool
		mainScript bool
		manager    bool
		pyproject  string
	}

	// InstallTreeOption customizes the fake installation BuildInstallTree
	// creates. The zero set of options builds a complete, valid tree.
	InstallTreeOption func(*installTree)
)

// WithoutVenv omits the isolated runtime interpreter, so the runtime
// completeness check reports an error.
func WithoutVenv() InstallTreeOption {
	return func(it *installTree) { it.venv = false }
}

// WithoutManifests omits app/pyproject.toml and app/uv.lock.
func WithoutManifests() InstallTreeOption {
	return func(it *installTree) { it.manifests = false }
}

// WithoutMainScript omits app/main.py.
func WithoutMainScript() InstallTreeOption {
	return func(it *installTree) { it.mainScript = false }
}

// WithoutManager omits the bundled extension manager script.
func WithoutManager() InstallTreeOption {
	return func(it *installTree) { it.manager = false }
}

// WithPyproject overrides the pyproject.toml content, e.g. with text that
// does not parse or that omits the project name.
func WithPyproject(content string) InstallTreeOption {
	return func(it *installTree) { it.pyproject = content }
}

// BuildInstallTree creates a fake studio installation under a fresh
// t.TempDir() and returns its base path. By default the tree is complete:
//
//	<base>/
//	  app/            main.py, pyproject.toml, uv.lock
//	  .venv/          interpreter stub
//	  manager/        em_cli.py
//	  extensions/  models/  user/
//
// Options remove or alter pieces so checks can be driven into their error
// branches. The interpreter stub is a plain file; tests that need to run it
// swap in a fake Runner instead.
func BuildInstallTree(t testing.TB, opts ...InstallTreeOption) string {
	t.Helper()

	it := &installTree{
		venv:       true,
		manifests:  true,
		mainScript: true,
		manager:    true,
		pyproject:  DefaultPyproject,
	}
	for _, opt := range opts {
		opt(it)
	}

	base := t.TempDir()

	MustMkdirAll(t, filepath.Join(base, "app"), 0o755)
	MustMkdirAll(t, filepath.Join(base, "extensions"), 0o755)
	MustMkdirAll(t, filepath.Join(base, "models"), 0o755)
	MustMkdirAll(t, filepath.Join(base, "user"), 0o755)

	if it.mainScript {
		MustWriteFile(t, filepath.Join(base, "app", "main.py"), "print('easel studio')\n")
	}
	if it.manifests {
		MustWriteFile(t, filepath.Join(base, "app", "pyproject.toml"), it.pyproject)
		MustWriteFile(t, filepath.Join(base, "app", "uv.lock"), "version = 1\n")
	}
	if it.venv {
		WriteVenvStub(t, base)
	}
	if it.manager {
		MustMkdirAll(t, filepath.Join(base, "manager"), 0o755)
		MustWriteFile(t, filepath.Join(base, "manager", "em_cli.py"), "# extension manager stub\n")
	}

	return base
}

// WriteVenvStub creates the platform-appropriate interpreter stub inside
// <base>/.venv so Venv.Exists() reports true.
func WriteVenvStub(t testing.TB, base string) {
	t.Helper()

	var python string
	if runtime.GOOS == "windows" {
		python = filepath.Join(base, ".venv", "Scripts", "python.exe")
	} else {
		python = filepath.Join(base, ".venv", "bin", "python")
	}
	MustMkdirAll(t, filepath.Dir(python), 0o755)
	if err := os.WriteFile(python, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("failed to write interpreter stub: %v", err)
	}
}
