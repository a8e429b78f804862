// SPDX-License-Identifier: MPL-2.0

// Package migration transplants user extensions from one studio installation
// to another through the bundled extension manager CLI.
//
// The protocol is export/import through one scoped snapshot artifact: the
// helper serializes the source installation's extension state into a
// temporary file, then restores that file into the target's extensions
// directory. The migrator exclusively owns the artifact's lifetime; it is
// created immediately before export and removed on every exit path, helper
// failures included. A non-zero helper exit escalates as *HelperError with
// both captured output streams attached so the bootstrap sequence can decide
// whether migration failure aborts the run or is reported and skipped.
package migration
