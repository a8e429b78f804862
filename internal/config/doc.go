// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from <user-config-dir>/easelboot/config.cue (so
// ~/.config/easelboot/config.cue on Linux, ~/Library/Application Support/easelboot/config.cue
// on macOS, %APPDATA%\easelboot\config.cue on Windows). The document records where the
// studio is installed (base path), how far installation got (install state), which
// accelerator was selected, and how the server should be launched.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations. A missing file
// is not an error: loading falls back to defaults, and callers decide whether an empty
// base path means "not installed yet".
package config
