// SPDX-License-Identifier: MPL-2.0

// Package maintenance implements the terminal repair surface the validation
// engine hands control to when a pass finds issues.
//
// The surface renders the validation report, offers one repair action per
// failing item plus the option to leave, and performs at most one action per
// engine iteration. Actions either mutate the persisted configuration
// (rewrite the base path, switch the device to CPU), mutate the installation
// (reinstall the isolated runtime), or render install guidance for
// conditions only the user can fix (git, the Windows C++ runtime).
// Abandoning the surface is a legitimate terminal state, not an error.
package maintenance
