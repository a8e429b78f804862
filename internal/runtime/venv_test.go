// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/easelstudio/easelboot/pkg/types"
)

func TestVenv_Paths(t *testing.T) {
	t.Parallel()

	v := NewVenv(types.FilesystemPath(filepath.Join("base", ".venv")))

	var wantBin, wantPython string
	if runtime.GOOS == "windows" {
		wantBin = filepath.Join("base", ".venv", "Scripts")
		wantPython = filepath.Join("base", ".venv", "Scripts", "python.exe")
	} else {
		wantBin = filepath.Join("base", ".venv", "bin")
		wantPython = filepath.Join("base", ".venv", "bin", "python")
	}

	if got := v.BinDir().String(); got != wantBin {
		t.Errorf("BinDir() = %q, want %q", got, wantBin)
	}
	if got := v.Python().String(); got != wantPython {
		t.Errorf("Python() = %q, want %q", got, wantPython)
	}
}

func TestVenv_Env(t *testing.T) {
	t.Parallel()

	v := NewVenv(types.FilesystemPath(filepath.Join("srv", "easel", ".venv")))
	env := v.Env("/usr/bin:/bin")

	if env["VIRTUAL_ENV"] != v.Dir.String() {
		t.Errorf("VIRTUAL_ENV = %q, want %q", env["VIRTUAL_ENV"], v.Dir)
	}

	wantPrefix := v.BinDir().String() + string(os.PathListSeparator)
	if !strings.HasPrefix(env["PATH"], wantPrefix) {
		t.Errorf("PATH = %q, want prefix %q", env["PATH"], wantPrefix)
	}
	if !strings.HasSuffix(env["PATH"], "/usr/bin:/bin") {
		t.Errorf("PATH = %q should keep the host path", env["PATH"])
	}

	home, present := env["PYTHONHOME"]
	if !present || home != "" {
		t.Errorf("PYTHONHOME should be overridden to empty, got %q (present=%v)", home, present)
	}
}

func TestVenv_EnvWithoutHostPath(t *testing.T) {
	t.Parallel()

	v := NewVenv(types.FilesystemPath(".venv"))
	env := v.Env("")

	if env["PATH"] != v.BinDir().String() {
		t.Errorf("PATH = %q, want bare bin dir %q", env["PATH"], v.BinDir())
	}
}

func TestVenv_Exists(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	v := NewVenv(types.FilesystemPath(filepath.Join(tmpDir, ".venv")))

	if v.Exists() {
		t.Error("venv without an interpreter should not exist")
	}

	pythonPath := v.Python().String()
	if err := os.MkdirAll(filepath.Dir(pythonPath), 0o755); err != nil {
		t.Fatalf("failed to create venv bin dir: %v", err)
	}
	if err := os.WriteFile(pythonPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to create interpreter stub: %v", err)
	}

	if !v.Exists() {
		t.Error("venv with an interpreter should exist")
	}
}

func TestVenv_PythonCommand(t *testing.T) {
	t.Parallel()

	v := NewVenv(types.FilesystemPath(filepath.Join("srv", ".venv")))
	cmd := v.PythonCommand(types.FilesystemPath("workdir"), "-m", "pip", "list")

	if cmd.Name != v.Python().String() {
		t.Errorf("Command.Name = %q, want %q", cmd.Name, v.Python())
	}
	if len(cmd.Args) != 3 || cmd.Args[0] != "-m" {
		t.Errorf("Command.Args = %v, want [-m pip list]", cmd.Args)
	}
	if cmd.Dir != "workdir" {
		t.Errorf("Command.Dir = %q, want workdir", cmd.Dir)
	}
	if cmd.Env["VIRTUAL_ENV"] != v.Dir.String() {
		t.Errorf("Command.Env[VIRTUAL_ENV] = %q, want %q", cmd.Env["VIRTUAL_ENV"], v.Dir)
	}
}

func TestLayout_Paths(t *testing.T) {
	t.Parallel()

	base := filepath.Join("srv", "easel")
	l := NewLayout(types.FilesystemPath(base))

	tests := []struct {
		name string
		got  types.FilesystemPath
		want string
	}{
		{"AppDir", l.AppDir(), filepath.Join(base, "app")},
		{"MainScript", l.MainScript(), filepath.Join(base, "app", "main.py")},
		{"Pyproject", l.Pyproject(), filepath.Join(base, "app", "pyproject.toml")},
		{"UvLock", l.UvLock(), filepath.Join(base, "app", "uv.lock")},
		{"VenvDir", l.VenvDir(), filepath.Join(base, ".venv")},
		{"ManagerScript", l.ManagerScript(), filepath.Join(base, "manager", "em_cli.py")},
		{"ExtensionsDir", l.ExtensionsDir(), filepath.Join(base, "extensions")},
		{"ModelsDir", l.ModelsDir(), filepath.Join(base, "models")},
		{"UserDir", l.UserDir(), filepath.Join(base, "user")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got.String() != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLayout_Venv(t *testing.T) {
	t.Parallel()

	l := NewLayout(types.FilesystemPath("base"))
	if got := l.Venv().Dir; got != l.VenvDir() {
		t.Errorf("Venv().Dir = %q, want %q", got, l.VenvDir())
	}
}

func TestLayout_Exists(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	if !NewLayout(types.FilesystemPath(tmpDir)).Exists() {
		t.Error("layout rooted at an existing directory should exist")
	}
	if NewLayout(types.FilesystemPath(filepath.Join(tmpDir, "missing"))).Exists() {
		t.Error("layout rooted at a missing directory should not exist")
	}

	filePath := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if NewLayout(types.FilesystemPath(filePath)).Exists() {
		t.Error("layout rooted at a plain file should not exist")
	}
}
