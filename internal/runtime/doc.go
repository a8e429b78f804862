// SPDX-License-Identifier: MPL-2.0

// Package runtime executes external processes on behalf of the bootstrap:
// the studio's Python interpreter, the uv package manager, git, and the
// driver diagnostic tools the validation checks rely on.
//
// The package has three entry points. Runner starts real processes and
// streams their output line by line to caller-supplied callbacks; a
// non-zero exit status is data, not an error. Prober answers yes/no
// availability questions ("does git run?") through an embedded POSIX shell
// with a hard deadline, so a wedged tool cannot stall validation. Layout
// and Venv resolve the well-known paths inside an installation root and
// compose the environment for running commands through its isolated
// Python runtime.
package runtime
