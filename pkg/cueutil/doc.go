// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for the CUE-based configuration
// layer: a pre-compile size guard (CheckFileSize) and user-facing error
// formatting (FormatError) that prefixes each CUE error with the file path
// and the JSON path of the offending field.
//
// Error format: <file-path>: <json-path>: <message>
//
// Example:
//
//	config.cue: launch.port: expected int, got string
package cueutil
