// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package launch

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/creack/pty"

	"github.com/easelstudio/easelboot/internal/runtime"
)

// ptyHandle controls a server process running under a pseudo-terminal.
type ptyHandle struct {
	cmd  *exec.Cmd
	done chan serverExit

	stopOnce sync.Once
}

// startServer starts the server under a PTY. The interpreter sees a
// terminal, so it keeps line-buffering its console instead of switching to
// block buffering on a pipe; lines arrive as they are printed. A PTY merges
// the output streams, so every line is delivered through OnStdout.
func startServer(ctx context.Context, cmd runtime.Command) (serverHandle, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir.String()
	}
	c.Env = runtime.Environ(cmd.Env)

	console, err := pty.Start(c)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s under a pty: %w", cmd.Name, err)
	}

	h := &ptyHandle{cmd: c, done: make(chan serverExit, 1)}

	go func() {
		scanner := bufio.NewScanner(console)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			if cmd.OnStdout != nil {
				cmd.OnStdout(scanner.Text())
			}
		}
		// The pty read side errors once the child exits; that is the EOF.
		_ = console.Close()

		waitErr := c.Wait()
		h.done <- serverExit{code: runtime.ExitCodeFrom(waitErr), err: nil}
	}()

	return h, nil
}

// Done implements serverHandle.
func (h *ptyHandle) Done() <-chan serverExit { return h.done }

// Stop implements serverHandle.
func (h *ptyHandle) Stop() {
	h.stopOnce.Do(func() {
		if h.cmd.Process != nil {
			_ = h.cmd.Process.Kill()
		}
	})
}
