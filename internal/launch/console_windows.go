// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launch

import (
	"context"
	"sync"

	"github.com/easelstudio/easelboot/internal/runtime"
)

// pipeHandle controls a server process streamed through the Runner's pipes.
// Windows has no pty; the interpreter is asked to stay line-buffered with
// PYTHONUNBUFFERED instead.
type pipeHandle struct {
	cancel context.CancelFunc
	done   chan serverExit

	stopOnce sync.Once
}

// startServer starts the server through the process Runner.
func startServer(ctx context.Context, cmd runtime.Command) (serverHandle, error) {
	ctx, cancel := context.WithCancel(ctx)

	if cmd.Env == nil {
		cmd.Env = map[string]string{}
	}
	cmd.Env["PYTHONUNBUFFERED"] = "1"

	h := &pipeHandle{cancel: cancel, done: make(chan serverExit, 1)}
	go func() {
		code, err := runtime.NewProcessRunner().Run(ctx, cmd)
		h.done <- serverExit{code: code, err: err}
	}()

	return h, nil
}

// Done implements serverHandle.
func (h *pipeHandle) Done() <-chan serverExit { return h.done }

// Stop implements serverHandle.
func (h *pipeHandle) Stop() {
	h.stopOnce.Do(h.cancel)
}
