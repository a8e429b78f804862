// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"

	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/types"
)

// Layout resolves the well-known paths inside an installation root:
//
//	<base>/
//	  app/            studio source (main.py, pyproject.toml, uv.lock)
//	  .venv/          isolated Python runtime
//	  manager/        bundled extension manager (em_cli.py)
//	  extensions/     user extensions
//	  models/  user/  data
type Layout struct {
	Base types.FilesystemPath
}

// NewLayout creates a Layout rooted at base.
func NewLayout(base types.FilesystemPath) Layout {
	return Layout{Base: base}
}

// AppDir returns the studio source directory.
func (l Layout) AppDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "app")
}

// MainScript returns the studio server entry point.
func (l Layout) MainScript() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "app", "main.py")
}

// Pyproject returns the studio's project manifest.
func (l Layout) Pyproject() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "app", "pyproject.toml")
}

// UvLock returns the pinned dependency lockfile.
func (l Layout) UvLock() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "app", "uv.lock")
}

// VenvDir returns the isolated Python runtime directory.
func (l Layout) VenvDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, ".venv")
}

// ManagerDir returns the bundled extension manager directory.
func (l Layout) ManagerDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "manager")
}

// ManagerScript returns the extension manager's command line entry point.
func (l Layout) ManagerScript() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "manager", "em_cli.py")
}

// ExtensionsDir returns the user extensions directory.
func (l Layout) ExtensionsDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "extensions")
}

// ModelsDir returns the model storage directory.
func (l Layout) ModelsDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "models")
}

// UserDir returns the per-user data directory.
func (l Layout) UserDir() types.FilesystemPath {
	return fspath.JoinStr(l.Base, "user")
}

// Venv returns the isolated runtime bound to this layout.
func (l Layout) Venv() *Venv {
	return NewVenv(l.VenvDir())
}

// Exists reports whether the installation root is a readable directory.
func (l Layout) Exists() bool {
	info, err := os.Stat(l.Base.String())
	return err == nil && info.IsDir()
}
