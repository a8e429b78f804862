// SPDX-License-Identifier: MPL-2.0

// Package validation implements the installation health model: named check
// items, the immutable pass report, the independent checks, and the engine
// that fans checks out, publishes reports, and drives the detect, repair,
// revalidate loop together with a repair surface.
//
// Environmental problems are data, not errors: a missing tool or directory
// becomes an item with status error inside a successfully produced report.
// The engine returns an error only when the caller's context ends mid-pass.
package validation
