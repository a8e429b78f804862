// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// detectOnce caches the sandbox detection result for the lifetime of the
// process. Detection runs once on first access using real OS lookups.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue propagates a
// panic on every subsequent call, which would turn one detection failure
// into a persistent crash condition.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox returns the type of application sandbox the current process
// is running in. The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: existence of /.flatpak-info
//   - Snap: SNAP_NAME environment variable
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox returns true if the current process is running inside a sandbox.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// HostCommandPrefix returns the words to prepend to a command line so it
// executes on the host system rather than inside the current sandbox.
// Tools installed on the host (git, nvidia-smi) are not visible inside
// Flatpak or Snap confinement without this escape.
// Returns nil when not sandboxed.
func HostCommandPrefix() []string {
	return HostCommandPrefixFor(DetectSandbox())
}

// HostCommandPrefixFor returns the host-escape prefix for a given sandbox
// type. This is a pure function independent of cached detection state,
// making it directly testable without process-wide side effects.
func HostCommandPrefixFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"flatpak-spawn", "--host"}
	case SandboxSnap:
		return []string{"snap", "run", "--shell"}
	default:
		return nil
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup
// functions. Accepting lookupEnv and statFile as parameters lets tests
// inject behavior without mutating process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info is always present inside
	// Flatpak sandboxes.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	// SNAP_NAME is set for all snaps.
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

// statFile checks for the existence of a file at the given path, wrapping
// os.Stat to match the func(string) error parameter of detectSandboxFrom.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
