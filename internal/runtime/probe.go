// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/easelstudio/easelboot/pkg/platform"
)

// DefaultProbeTimeout bounds a single availability probe. Tools that
// cannot answer within it are treated as unavailable.
const DefaultProbeTimeout = 5000 * time.Millisecond

type (
	// Prober answers yes/no availability questions by running a command
	// line through an embedded POSIX shell. Using the embedded interpreter
	// keeps probes working on hosts without /bin/sh, Windows included.
	Prober struct {
		// Timeout bounds each probe. Zero means DefaultProbeTimeout.
		Timeout time.Duration
		// HostPrefix is prepended to every executed argv so probes reach
		// the host system from inside an application sandbox.
		HostPrefix []string
		// Logger receives per-probe debug records. When nil, the package
		// default logger is used.
		Logger *log.Logger
	}

	// ProbeOption configures a Prober.
	ProbeOption func(*Prober)
)

// WithProbeTimeout overrides the probe deadline.
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *Prober) { p.Timeout = d }
}

// WithHostPrefix overrides the sandbox escape prefix.
func WithHostPrefix(prefix []string) ProbeOption {
	return func(p *Prober) { p.HostPrefix = prefix }
}

// NewProber creates a Prober with the platform's sandbox prefix and the
// default timeout.
func NewProber(opts ...ProbeOption) *Prober {
	p := &Prober{
		Timeout:    DefaultProbeTimeout,
		HostPrefix: platform.HostCommandPrefix(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe runs cmdline and reports whether it exited zero within the
// deadline. Parse errors, non-zero exits, and timeouts all report false;
// a probe never returns an error and never outlives its deadline.
func (p *Prober) Probe(ctx context.Context, cmdline string) bool {
	file, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "probe")
	if err != nil {
		p.logger().Debug("probe rejected", "cmdline", cmdline, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	runner, err := interp.New(
		interp.StdIO(nil, io.Discard, io.Discard),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.ExecHandlers(p.execHandler),
	)
	if err != nil {
		p.logger().Debug("probe interpreter failed", "err", err)
		return false
	}

	err = runner.Run(ctx, file)
	ok := err == nil
	p.logger().Debug("probe finished", "cmdline", cmdline, "ok", ok)
	return ok
}

// execHandler prepends the sandbox escape prefix before delegating to the
// default handler, which kills the child when the probe context ends.
func (p *Prober) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(p.HostPrefix) > 0 {
			args = append(append([]string{}, p.HostPrefix...), args...)
		}
		return next(ctx, args)
	}
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultProbeTimeout
}

func (p *Prober) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}
