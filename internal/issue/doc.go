// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance, improving the user experience when an
// installation check fails or a bootstrap operation goes wrong.
package issue
