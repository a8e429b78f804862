// SPDX-License-Identifier: MPL-2.0

package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/internal/telemetry"
	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/types"
)

const (
	// EnvEaselPath is the path-context variable the extension manager reads.
	// The helper's working directory is pointed at the same root: some helper
	// versions resolve paths relative to the process cwd, others via the
	// variable, so both are always set.
	EnvEaselPath = "EASEL_PATH"

	// artifactPattern names the scoped snapshot artifact in the temp dir.
	artifactPattern = "easel-snapshot-*.json"

	// extraneousManagerDir is the directory the helper's own bootstrap
	// recreates inside the target's extensions directory during restore. The
	// manager is already bundled at <base>/manager; without this cleanup a
	// migration leaves a duplicate copy alongside it.
	extraneousManagerDir = "easel-manager"
)

// ErrHelper is the sentinel error wrapped by HelperError.
var ErrHelper = errors.New("extension manager helper failed")

type (
	// HelperError reports a non-zero exit from the extension manager CLI.
	// Both output streams are retained for diagnostics; the composite message
	// surfaces them to the user in one block.
	HelperError struct {
		// Subcommand is the helper subcommand that failed.
		Subcommand string
		// ExitCode is the helper's exit status.
		ExitCode types.ExitCode
		// Stdout holds the captured standard output lines.
		Stdout []string
		// Stderr holds the captured standard error lines.
		Stderr []string
	}

	// Migrator transplants extension state from a source installation into
	// the target installation this process manages. The helper script and the
	// interpreter that runs it always come from the target: the source may be
	// an old layout whose own tooling no longer works.
	Migrator struct {
		// Runner executes the helper. Required.
		Runner runtime.Runner
		// Target is the installation root receiving the extensions. Required.
		Target types.FilesystemPath
		// TempDir overrides the snapshot artifact directory. Empty means the
		// system temp directory.
		TempDir string
		// Recorder receives operation events. When nil, events are dropped.
		Recorder telemetry.Recorder
		// Logger receives progress records. When nil, the package default
		// logger is used.
		Logger *log.Logger
	}
)

// Error implements the error interface for HelperError.
func (e *HelperError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "extension manager %s exited with code %s", e.Subcommand, e.ExitCode)
	if len(e.Stdout) > 0 {
		sb.WriteString("\nstdout:\n  ")
		sb.WriteString(strings.Join(e.Stdout, "\n  "))
	}
	if len(e.Stderr) > 0 {
		sb.WriteString("\nstderr:\n  ")
		sb.WriteString(strings.Join(e.Stderr, "\n  "))
	}
	return sb.String()
}

// Unwrap returns ErrHelper for errors.Is() compatibility.
func (e *HelperError) Unwrap() error { return ErrHelper }

// NewMigrator creates a Migrator importing into target.
func NewMigrator(runner runtime.Runner, target types.FilesystemPath) *Migrator {
	return &Migrator{Runner: runner, Target: target}
}

// ExportSnapshot serializes the source installation's extension state into a
// fresh snapshot artifact and returns the artifact path. The caller owns the
// artifact on success; on failure nothing is left behind.
func (m *Migrator) ExportSnapshot(ctx context.Context, source types.FilesystemPath) (types.FilesystemPath, error) {
	m.recorder().Record("migration.export")

	f, err := os.CreateTemp(m.tempDir(), artifactPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot artifact: %w", err)
	}
	artifact := types.FilesystemPath(f.Name())
	if err := f.Close(); err != nil {
		_ = os.Remove(artifact.String())
		return "", fmt.Errorf("failed to create snapshot artifact: %w", err)
	}

	args := []string{"save-snapshot", "--output", artifact.String(), "--no-full-snapshot"}
	if err := m.runHelper(ctx, "save-snapshot", args, source); err != nil {
		_ = os.Remove(artifact.String())
		return "", err
	}

	if info, err := os.Stat(artifact.String()); err == nil {
		m.logger().Info("snapshot exported",
			"source", source, "artifact", artifact, "size", humanize.Bytes(uint64(info.Size())))
	}

	return artifact, nil
}

// ImportSnapshot restores the artifact's contents into the target's
// extensions directory. The artifact itself is left in place; callers that
// own it (Migrate does) remove it afterwards.
func (m *Migrator) ImportSnapshot(ctx context.Context, artifact types.FilesystemPath) error {
	m.recorder().Record("migration.import")

	restoreTo := m.targetLayout().ExtensionsDir()
	args := []string{"restore-snapshot", artifact.String(), "--restore-to", restoreTo.String()}
	if err := m.runHelper(ctx, "restore-snapshot", args, m.Target); err != nil {
		return err
	}

	m.logger().Info("snapshot restored", "target", restoreTo)
	return nil
}

// Migrate composes export and import through one scoped artifact. The
// artifact is deleted on every exit path; the extraneous manager copy the
// restore step recreates is removed as well, on failure paths included,
// since a partial restore may already have recreated it.
func (m *Migrator) Migrate(ctx context.Context, source types.FilesystemPath) error {
	m.recorder().Record("migration.migrate")
	opID := uuid.NewString()
	m.logger().Info("migrating extensions", "op", opID, "source", source, "target", m.Target)

	artifact, err := m.ExportSnapshot(ctx, source)
	if err != nil {
		return fmt.Errorf("migration %s: %w", opID, err)
	}
	defer func() {
		if removeErr := os.Remove(artifact.String()); removeErr != nil && !os.IsNotExist(removeErr) {
			m.logger().Warn("failed to remove snapshot artifact", "artifact", artifact, "err", removeErr)
		}
	}()
	defer m.removeExtraneousManager()

	if err := m.ImportSnapshot(ctx, artifact); err != nil {
		return fmt.Errorf("migration %s: %w", opID, err)
	}

	m.logger().Info("migration complete", "op", opID)
	return nil
}

// runHelper executes one extension manager subcommand through the target's
// isolated runtime, with the working directory and EnvEaselPath both pointed
// at root. A process that starts but exits non-zero becomes a *HelperError
// carrying both captured streams.
func (m *Migrator) runHelper(ctx context.Context, subcommand string, args []string, root types.FilesystemPath) error {
	layout := m.targetLayout()
	venv := layout.Venv()

	env := venv.Env(os.Getenv("PATH"))
	env[EnvEaselPath] = root.String()

	var stdout, stderr []string
	cmd := runtime.Command{
		Name:     venv.Python().String(),
		Args:     append([]string{layout.ManagerScript().String()}, args...),
		Dir:      root,
		Env:      env,
		OnStdout: func(line string) { stdout = append(stdout, line) },
		OnStderr: func(line string) { stderr = append(stderr, line) },
	}

	code, err := m.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to run extension manager %s: %w", subcommand, err)
	}
	if !code.IsSuccess() {
		return &HelperError{Subcommand: subcommand, ExitCode: code, Stdout: stdout, Stderr: stderr}
	}
	return nil
}

// removeExtraneousManager deletes the duplicate manager copy the restore
// step's bootstrap creates under the target's extensions directory.
func (m *Migrator) removeExtraneousManager() {
	dir := fspath.JoinStr(m.targetLayout().ExtensionsDir(), extraneousManagerDir).String()
	if _, err := os.Stat(dir); err != nil {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		m.logger().Warn("failed to remove duplicate extension manager", "dir", dir, "err", err)
		return
	}
	m.logger().Debug("removed duplicate extension manager", "dir", dir)
}

func (m *Migrator) targetLayout() runtime.Layout {
	return runtime.NewLayout(m.Target)
}

func (m *Migrator) tempDir() string {
	if m.TempDir != "" {
		return m.TempDir
	}
	return os.TempDir()
}

func (m *Migrator) recorder() telemetry.Recorder {
	if m.Recorder != nil {
		return m.Recorder
	}
	return telemetry.Nop()
}

func (m *Migrator) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.Default()
}
