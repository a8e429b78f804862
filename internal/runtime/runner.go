// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/easelstudio/easelboot/pkg/types"
)

// ErrEmptyCommand is returned when a Command has no executable name.
var ErrEmptyCommand = errors.New("empty command")

// scanBufferSize bounds a single output line. Package installers print
// long progress lines; the default bufio limit of 64 KiB truncates them.
const scanBufferSize = 1024 * 1024

type (
	// Command describes one external process invocation.
	Command struct {
		// Name is the executable to run, resolved via PATH when relative.
		Name string
		// Args are passed verbatim to the process.
		Args []string
		// Dir is the working directory. Empty means the caller's directory.
		Dir types.FilesystemPath
		// Env entries override the inherited host environment.
		Env map[string]string
		// OnStdout receives each stdout line as it is produced. May be nil.
		OnStdout func(line string)
		// OnStderr receives each stderr line as it is produced. May be nil.
		OnStderr func(line string)
	}

	// Runner executes Commands and reports their exit status.
	Runner interface {
		Run(ctx context.Context, cmd Command) (types.ExitCode, error)
	}

	// ProcessRunner runs Commands as real OS processes.
	//
	// The environment handed to the process is the host environment with
	// Command.Env layered on top; an override set to the empty string
	// still reaches the process as an empty variable.
	ProcessRunner struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		// Logger receives per-command debug records. When nil, the
		// package default logger is used.
		Logger *log.Logger
	}
)

// NewProcessRunner creates a Runner backed by os/exec.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Run starts the process and waits for it to finish, streaming output lines
// to the Command's callbacks. The exit status is returned as data; Run only
// errors when the process cannot be started or the context ends first.
func (r *ProcessRunner) Run(ctx context.Context, cmd Command) (types.ExitCode, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return 1, ErrEmptyCommand
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir.String()
	}
	c.Env = composeEnv(r.environ(), cmd.Env)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return 1, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return 1, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	r.logger().Debug("running command", "name", cmd.Name, "args", cmd.Args, "dir", cmd.Dir)

	if err := c.Start(); err != nil {
		return 1, fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, cmd.OnStdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, cmd.OnStderr)
	}()

	// Drain both pipes before Wait closes them.
	wg.Wait()

	code := types.ExitCode(0)
	if err := c.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 1, fmt.Errorf("command %s failed: %w", cmd.Name, err)
		}
		code = exitCodeFromError(exitErr)
	}

	if ctx.Err() != nil {
		return code, fmt.Errorf("command %s canceled: %w", cmd.Name, ctx.Err())
	}

	r.logger().Debug("command finished", "name", cmd.Name, "exit_code", code)

	return code, nil
}

func (r *ProcessRunner) environ() []string {
	if r.Environ != nil {
		return r.Environ()
	}
	return os.Environ()
}

func (r *ProcessRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Environ renders the inherited host environment with overrides applied,
// for callers that exec processes outside the Runner (the launcher's PTY
// path) but still want the Runner's override semantics.
func Environ(overrides map[string]string) []string {
	return composeEnv(os.Environ(), overrides)
}

// ExitCodeFrom maps the error of a finished process Wait to an exit code
// under the Runner's conventions: nil is success, an exec.ExitError yields
// the process status (128+signal for signal deaths), anything else is 1.
func ExitCodeFrom(err error) types.ExitCode {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitCodeFromError(exitErr)
	}
	return 1
}

// exitCodeFromError maps a finished process to its exit status. A process
// killed by a signal maps to 128 plus the signal number, matching shell
// convention. Windows never reports Signaled, so the plain code is used.
func exitCodeFromError(exitErr *exec.ExitError) types.ExitCode {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return types.ExitCode(128 + int(ws.Signal()))
	}
	return types.ExitCode(exitErr.ExitCode())
}

// scanLines delivers each line read from rd to sink. A nil sink still
// drains rd so the child never blocks on a full pipe.
func scanLines(rd io.Reader, sink func(string)) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	for scanner.Scan() {
		if sink != nil {
			sink(scanner.Text())
		}
	}
}

// composeEnv layers overrides on top of the host environment and renders
// the result as "KEY=VALUE" entries, sorted for deterministic tests.
func composeEnv(host []string, overrides map[string]string) []string {
	env := envMap(host)
	maps.Copy(env, overrides)
	return envSlice(env)
}

// envMap parses "KEY=VALUE" entries into a map. Entries without "=" are
// dropped; later duplicates win, matching exec semantics.
func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// envSlice renders an environment map as sorted "KEY=VALUE" entries.
func envSlice(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for key, value := range env {
		entries = append(entries, key+"="+value)
	}
	slices.Sort(entries)
	return entries
}
