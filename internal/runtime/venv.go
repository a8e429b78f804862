// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"runtime"

	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/platform"
	"github.com/easelstudio/easelboot/pkg/types"
)

// Venv is an isolated Python runtime rooted at a .venv directory.
//
// Venv composes paths and environments; it never mutates the runtime
// itself. Callers that rewrite the venv (reinstall, uv sync) serialize
// those commands themselves.
type Venv struct {
	// Dir is the venv root, conventionally <base>/.venv.
	Dir types.FilesystemPath
}

// NewVenv creates a Venv rooted at dir.
func NewVenv(dir types.FilesystemPath) *Venv {
	return &Venv{Dir: dir}
}

// BinDir returns the directory holding the venv's executables.
// Windows venvs use Scripts, everything else bin.
func (v *Venv) BinDir() types.FilesystemPath {
	if runtime.GOOS == platform.Windows {
		return fspath.JoinStr(v.Dir, "Scripts")
	}
	return fspath.JoinStr(v.Dir, "bin")
}

// Python returns the venv's interpreter path.
func (v *Venv) Python() types.FilesystemPath {
	if runtime.GOOS == platform.Windows {
		return fspath.JoinStr(v.Dir, "Scripts", "python.exe")
	}
	return fspath.JoinStr(v.Dir, "bin", "python")
}

// Exists reports whether the venv has an interpreter to run.
func (v *Venv) Exists() bool {
	info, err := os.Stat(v.Python().String())
	return err == nil && !info.IsDir()
}

// Env returns the environment overrides that route execution through the
// venv: VIRTUAL_ENV names the venv, its bin directory is prepended to the
// given host PATH, and PYTHONHOME is cleared. CPython's config reader
// treats an empty PYTHONHOME as unset, so an empty override is enough to
// neutralize an inherited value.
func (v *Venv) Env(hostPath string) map[string]string {
	venvPath := v.BinDir().String()
	if hostPath != "" {
		venvPath += string(os.PathListSeparator) + hostPath
	}
	return map[string]string{
		"VIRTUAL_ENV": v.Dir.String(),
		"PATH":        venvPath,
		"PYTHONHOME":  "",
	}
}

// PythonCommand builds a Command that runs the venv interpreter with args,
// rooted at dir. Output callbacks are left for the caller to attach.
func (v *Venv) PythonCommand(dir types.FilesystemPath, args ...string) Command {
	return Command{
		Name: v.Python().String(),
		Args: args,
		Dir:  dir,
		Env:  v.Env(os.Getenv("PATH")),
	}
}
