// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities: OS name
// constants for runtime.GOOS comparisons and detection of application
// sandboxes (Flatpak, Snap) that require host tool probes to be spawned
// through an escape command.
package platform
