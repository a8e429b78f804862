// SPDX-License-Identifier: MPL-2.0

// Package bootstrap tracks which phase of first-run installation is
// active. A single writer (the top-level bootstrap sequence) advances the
// process-wide stage; any number of subscribers observe transitions and
// the two one-shot lifecycle signals: control channel ready and
// environment fully loaded.
//
// Stage notifications are dispatched synchronously in registration order,
// so subscribers must not block; slow work belongs on a goroutine the
// subscriber schedules itself.
package bootstrap
