// SPDX-License-Identifier: MPL-2.0

package maintenance

import (
	"context"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/pkg/platform"
	"github.com/easelstudio/easelboot/pkg/types"
)

// reinstallRuntime rebuilds the isolated Python runtime from the pinned lock
// file. The fast path uses uv (venv creation and locked sync in two
// commands); hosts without uv fall back to the stock venv module plus pip.
// Every command streams its output into the log so a slow dependency install
// is visibly alive.
func (s *Surface) reinstallRuntime(ctx context.Context) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	layout := runtime.NewLayout(types.FilesystemPath(cfg.BasePath))
	venv := layout.Venv()

	if err := os.RemoveAll(layout.VenvDir().String()); err != nil {
		return fmt.Errorf("failed to remove the old runtime: %w", err)
	}

	if s.Prober.Probe(ctx, "uv --version") {
		return s.reinstallWithUv(ctx, layout)
	}

	s.logger().Info("uv not found, falling back to the stock venv module")
	if err := s.runHostCommand(ctx, layout.Base, nil, hostPython(), "-m", "venv", layout.VenvDir().String()); err != nil {
		return err
	}
	env := venv.Env(os.Getenv("PATH"))
	if err := s.runHostCommand(ctx, layout.AppDir(), env, venv.Python().String(), "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return err
	}
	return s.runHostCommand(ctx, layout.AppDir(), env, venv.Python().String(), "-m", "pip", "install", ".")
}

// reinstallWithUv provisions the venv and installs the locked dependency set
// with uv. UV_PROJECT_ENVIRONMENT points uv at the installation's venv
// location, which lives beside the app directory rather than inside it.
func (s *Surface) reinstallWithUv(ctx context.Context, layout runtime.Layout) error {
	env := map[string]string{"UV_PROJECT_ENVIRONMENT": layout.VenvDir().String()}

	if err := s.runHostCommand(ctx, layout.Base, env, "uv", "venv", layout.VenvDir().String()); err != nil {
		return err
	}
	return s.runHostCommand(ctx, layout.AppDir(), env, "uv", "sync", "--locked")
}

// runHostCommand runs one repair command on the host, with the platform's
// sandbox escape prefix applied, and treats a non-zero exit as a repair
// failure.
func (s *Surface) runHostCommand(ctx context.Context, dir types.FilesystemPath, env map[string]string, name string, args ...string) error {
	argv := append(append([]string{}, platform.HostCommandPrefix()...), name)
	argv = append(argv, args...)

	logLine := func(line string) { s.logger().Info(line) }
	code, err := s.Runner.Run(ctx, runtime.Command{
		Name:     argv[0],
		Args:     argv[1:],
		Dir:      dir,
		Env:      env,
		OnStdout: logLine,
		OnStderr: logLine,
	})
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	if !code.IsSuccess() {
		return fmt.Errorf("%s exited with code %s", name, code)
	}
	return nil
}

// hostPython names the stock interpreter used for the venv fallback.
func hostPython() string {
	if goruntime.GOOS == platform.Windows {
		return "python"
	}
	return "python3"
}
