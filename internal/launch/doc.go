// SPDX-License-Identifier: MPL-2.0

// Package launch drives the full bootstrap sequence: validate (and repair)
// the installation, run a pending extension migration, start the studio
// server inside the isolated runtime, and advance the stage tracker to ready
// once the server's control channel accepts connections.
//
// On Unix the server runs under a pseudo-terminal so the interpreter keeps
// line-buffering its console output; Windows falls back to pipe streaming
// through the Runner. Console lines feed the structured log and the current
// stage message while the server is starting.
package launch
