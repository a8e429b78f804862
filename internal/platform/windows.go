// SPDX-License-Identifier: MPL-2.0

// Package platform holds platform quirks that are internal implementation
// details of validation, as opposed to the reusable helpers in pkg/platform.
package platform

import "strings"

// windowsReservedNames are file names that cannot be used on Windows.
// The OS reserves them regardless of extension; a base path containing one
// as a component is silently broken for some file operations.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName checks if a file name is a Windows reserved name.
// Extensions are ignored: "nul.txt" is as reserved as "NUL".
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}

// ReservedPathComponent returns the first path component of p that is a
// Windows reserved name, or "" when the path is clean. Both separator
// styles are split so Windows-style configured paths are inspectable from
// any platform. Used to warn about base paths that Windows will mishandle.
func ReservedPathComponent(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, part := range parts {
		if IsWindowsReservedName(part) {
			return part
		}
	}
	return ""
}
