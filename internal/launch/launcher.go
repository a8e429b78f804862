// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/easelstudio/easelboot/internal/bootstrap"
	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/migration"
	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/internal/telemetry"
	"github.com/easelstudio/easelboot/internal/validation"
	"github.com/easelstudio/easelboot/pkg/types"
)

const (
	// DefaultReadyTimeout bounds the wait for the server's control channel.
	// Model loading on first start is slow; the timeout is generous.
	DefaultReadyTimeout = 120 * time.Second
	// DefaultPollInterval paces the control channel dial attempts.
	DefaultPollInterval = 250 * time.Millisecond
	// defaultDialTimeout bounds one control channel dial attempt.
	defaultDialTimeout = time.Second
)

var (
	// ErrNotValid means validation ended with unresolved errors, so the
	// server was never started.
	ErrNotValid = errors.New("installation is not valid")
	// ErrServerExited means the server process ended before its control
	// channel accepted a connection.
	ErrServerExited = errors.New("studio server exited before becoming ready")
	// ErrNotReady means the control channel never accepted a connection
	// within the ready timeout.
	ErrNotReady = errors.New("studio server did not become ready in time")
)

type (
	// Migrator runs a pending extension migration. Satisfied by
	// *migration.Migrator.
	Migrator interface {
		Migrate(ctx context.Context, source types.FilesystemPath) error
	}

	// serverExit is the terminal state of a started server process.
	serverExit struct {
		code types.ExitCode
		err  error
	}

	// serverHandle controls a started server process.
	serverHandle interface {
		// Done delivers exactly one serverExit when the process ends.
		Done() <-chan serverExit
		// Stop forcibly terminates the process. Idempotent.
		Stop()
	}

	// Launcher runs the bootstrap sequence end to end.
	Launcher struct {
		// Engine validates the installation before anything mutates. Its
		// Maintainer decides whether preflight is interactive. Required.
		Engine *validation.Engine
		// Provider loads the configuration driving the launch. Required.
		Provider config.Provider
		// LoadOptions are passed to every configuration load.
		LoadOptions config.LoadOptions
		// Tracker observes the bootstrap lifecycle. Required.
		Tracker *bootstrap.Tracker
		// ReadyTimeout bounds the control channel wait. Zero means
		// DefaultReadyTimeout.
		ReadyTimeout time.Duration
		// PollInterval paces control channel dial attempts. Zero means
		// DefaultPollInterval.
		PollInterval time.Duration
		// Recorder receives operation events. When nil, events are dropped.
		Recorder telemetry.Recorder
		// Logger receives progress and server console lines. When nil, the
		// package default logger is used.
		Logger *log.Logger

		// newMigrator, start, dial and saveConfig are seams for tests.
		newMigrator func(target types.FilesystemPath) Migrator
		start       func(ctx context.Context, cmd runtime.Command) (serverHandle, error)
		dial        func(addr string) error
		saveConfig  func(*config.Config) error
	}
)

// NewLauncher creates a Launcher with the real process, migration, and
// network implementations wired in.
func NewLauncher(engine *validation.Engine, provider config.Provider, tracker *bootstrap.Tracker) *Launcher {
	l := &Launcher{
		Engine:   engine,
		Provider: provider,
		Tracker:  tracker,
	}
	l.newMigrator = func(target types.FilesystemPath) Migrator {
		m := migration.NewMigrator(runtime.NewProcessRunner(), target)
		m.Recorder = l.Recorder
		m.Logger = l.Logger
		return m
	}
	l.start = startServer
	l.dial = func(addr string) error {
		conn, err := net.DialTimeout("tcp", addr, defaultDialTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}
	l.saveConfig = config.Save
	return l
}

// Launch runs the sequence: preflight validation (with repair when the
// engine has a maintainer), pending migration, server start, control channel
// wait, then blocks until the server exits or ctx ends. The tracker reflects
// every phase; the error stage is set on every failure path.
func (l *Launcher) Launch(ctx context.Context) error {
	l.recorder().Record("launch")

	if _, err := l.preflight(ctx); err != nil {
		return err
	}

	cfg, err := l.Provider.Load(ctx, l.LoadOptions)
	if err != nil {
		l.fail("configuration became unreadable after validation", err)
		return err
	}

	if err := l.migrateIfPending(ctx, cfg); err != nil {
		return err
	}

	// Preflight passed and migration is settled: the environment is as
	// loaded as it gets before the server owns it.
	l.Tracker.SignalEnvLoaded()

	return l.serve(ctx, cfg)
}

// preflight validates, repairing interactively when the engine carries a
// maintainer. Unresolved errors end the launch before anything mutates.
func (l *Launcher) preflight(ctx context.Context) (validation.Report, error) {
	l.Tracker.SetStage(bootstrap.Info{
		Stage:    bootstrap.StagePreflight,
		Progress: bootstrap.ProgressIndeterminate,
		Message:  "Validating installation",
	})

	report, err := l.Engine.ValidateAndRepair(ctx)
	if err != nil {
		l.fail("validation did not complete", err)
		return report, err
	}
	if !report.OverallValid() {
		err := fmt.Errorf("%w: run 'easelboot repair' to fix the reported problems", ErrNotValid)
		l.fail("installation has unresolved problems", err)
		return report, err
	}
	return report, nil
}

// migrateIfPending runs the snapshot migration when the configuration names
// an unconsumed source, then clears the source so a restart does not migrate
// twice.
func (l *Launcher) migrateIfPending(ctx context.Context, cfg *config.Config) error {
	source := cfg.MigrationSource.String()
	if source == "" {
		return nil
	}

	l.Tracker.SetStage(bootstrap.Info{
		Stage:    bootstrap.StageMigrate,
		Progress: bootstrap.ProgressIndeterminate,
		Message:  "Migrating extensions from " + source,
	})

	m := l.newMigrator(types.FilesystemPath(cfg.BasePath))
	if err := m.Migrate(ctx, types.FilesystemPath(source)); err != nil {
		l.fail("extension migration failed", err)
		return err
	}

	cfg.MigrationSource = ""
	if err := l.saveConfig(cfg); err != nil {
		l.fail("failed to record completed migration", err)
		return err
	}
	return nil
}

// serve starts the server, waits for its control channel, and then blocks
// until the process ends.
func (l *Launcher) serve(ctx context.Context, cfg *config.Config) error {
	l.Tracker.SetStage(bootstrap.Info{
		Stage:    bootstrap.StageStarting,
		Progress: bootstrap.ProgressIndeterminate,
		Message:  "Starting the studio server",
	})

	var ready atomic.Bool
	cmd := ServerCommand(cfg)
	onLine := func(line string) {
		l.logger().Info("server", "line", line)
		if !ready.Load() {
			l.Tracker.SetStage(bootstrap.Info{
				Stage:    bootstrap.StageStarting,
				Progress: bootstrap.ProgressIndeterminate,
				Message:  line,
			})
		}
	}
	cmd.OnStdout = onLine
	cmd.OnStderr = onLine

	handle, err := l.start(ctx, cmd)
	if err != nil {
		l.fail("the studio server could not be started", err)
		return err
	}

	addr := net.JoinHostPort(cfg.Launch.Host.String(), cfg.Launch.Port.String())
	if err := l.awaitReady(ctx, handle, addr, cfg.Launch.Port == 0); err != nil {
		handle.Stop()
		return err
	}

	ready.Store(true)
	l.Tracker.SignalControlReady()
	l.Tracker.SetStage(bootstrap.Info{
		Stage:    bootstrap.StageReady,
		Progress: 100,
		Message:  "Studio server is serving on " + addr,
	})

	select {
	case exit := <-handle.Done():
		if exit.err != nil || !exit.code.IsSuccess() {
			err := fmt.Errorf("studio server ended with exit code %s", exit.code)
			l.fail("the studio server stopped unexpectedly", err)
			return err
		}
		l.logger().Info("studio server exited cleanly")
		return nil
	case <-ctx.Done():
		handle.Stop()
		return fmt.Errorf("launch canceled: %w", ctx.Err())
	}
}

// awaitReady polls the control channel until it accepts a connection, the
// server exits, or the ready timeout elapses. With port 0 the server picks
// its own port and there is nothing to poll; the server is trusted as soon
// as it is running.
func (l *Launcher) awaitReady(ctx context.Context, handle serverHandle, addr string, autoPort bool) error {
	if autoPort {
		return nil
	}

	deadline := time.NewTimer(l.readyTimeout())
	defer deadline.Stop()
	tick := time.NewTicker(l.pollInterval())
	defer tick.Stop()

	for {
		select {
		case exit := <-handle.Done():
			err := fmt.Errorf("%w (exit code %s)", ErrServerExited, exit.code)
			l.fail("the studio server exited during startup", err)
			return err
		case <-deadline.C:
			l.fail("the studio server did not answer on its control channel", ErrNotReady)
			return ErrNotReady
		case <-ctx.Done():
			return fmt.Errorf("launch canceled: %w", ctx.Err())
		case <-tick.C:
			if err := l.dial(addr); err == nil {
				return nil
			}
		}
	}
}

// ServerCommand builds the studio server invocation for a configuration:
// the venv interpreter running app/main.py with the configured listen
// address, port, and extra arguments, rooted at the app directory.
func ServerCommand(cfg *config.Config) runtime.Command {
	layout := runtime.NewLayout(types.FilesystemPath(cfg.BasePath))
	venv := layout.Venv()

	args := []string{
		layout.MainScript().String(),
		"--listen", cfg.Launch.Host.String(),
		"--port", cfg.Launch.Port.String(),
	}
	args = append(args, cfg.Launch.ExtraArgs...)

	return runtime.Command{
		Name: venv.Python().String(),
		Args: args,
		Dir:  layout.AppDir(),
		Env:  venv.Env(os.Getenv("PATH")),
	}
}

// fail records a failure on the tracker's error stage.
func (l *Launcher) fail(message string, err error) {
	l.logger().Error(message, "err", err)
	l.Tracker.SetStage(bootstrap.Info{
		Stage:    bootstrap.StageError,
		Progress: bootstrap.ProgressIndeterminate,
		Message:  message,
		Err:      err.Error(),
	})
}

func (l *Launcher) readyTimeout() time.Duration {
	if l.ReadyTimeout > 0 {
		return l.ReadyTimeout
	}
	return DefaultReadyTimeout
}

func (l *Launcher) pollInterval() time.Duration {
	if l.PollInterval > 0 {
		return l.PollInterval
	}
	return DefaultPollInterval
}

func (l *Launcher) recorder() telemetry.Recorder {
	if l.Recorder != nil {
		return l.Recorder
	}
	return telemetry.Nop()
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}
