// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so path-handling call sites keep
// the typed value end to end instead of round-tripping through raw strings.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easelstudio/easelboot/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
// The returned path inherits validity from its typed input components.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// (e.g., "config.cue") or OS-provided file names (e.g., from os.ReadDir).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Resolve evaluates symbolic links in p and returns the cleaned real path.
// When the path (or a parent) does not exist, it falls back to
// filepath.Clean of the original value so the caller can still compare
// lexically. The boolean reports whether link resolution succeeded.
func Resolve(p types.FilesystemPath) (types.FilesystemPath, bool) {
	resolved, err := filepath.EvalSymlinks(string(p))
	if err != nil {
		return Clean(p), false
	}
	return types.FilesystemPath(resolved), true
}

// ExpandUser replaces a leading "~" or "~/" with the current user's home
// directory. Paths without the prefix are returned unchanged. When the home
// directory cannot be determined the input is returned unchanged.
func ExpandUser(p types.FilesystemPath) types.FilesystemPath {
	s := string(p)
	if s != "~" && !strings.HasPrefix(s, "~"+string(filepath.Separator)) && !strings.HasPrefix(s, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if s == "~" {
		return types.FilesystemPath(home)
	}
	return types.FilesystemPath(filepath.Join(home, s[2:]))
}

// Within reports whether path is lexically inside root (or equal to it).
// Both inputs should already be absolute and symlink-resolved; no filesystem
// access is performed.
func Within(path, root types.FilesystemPath) bool {
	rel, err := filepath.Rel(string(root), string(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
