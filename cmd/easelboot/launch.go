// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/bootstrap"
	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/gpu"
	"github.com/easelstudio/easelboot/internal/launch"
	"github.com/easelstudio/easelboot/internal/maintenance"
	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/internal/telemetry"
	"github.com/easelstudio/easelboot/internal/validation"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Validate the installation and start the studio server",
	Long: `Validate the installation and start the studio server.

This is the full bootstrap sequence: a validation pass (with interactive
repair when something is wrong), a pending extension migration if one is
recorded, and then the server itself. The command blocks while the server
runs and returns when it exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLaunch(cmd.Context())
	},
}

func runLaunch(ctx context.Context) error {
	tracker, err := bootstrap.Initialize()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	tracker.SubscribeStage(func(info bootstrap.Info) {
		log.Info("stage", "stage", info.Stage, "message", info.Message)
	})

	launcher := launch.NewLauncher(newEngine(ctx, true), config.NewProvider(), tracker)
	launcher.Recorder = telemetry.NewLogRecorder(log.Default())

	if err := launcher.Launch(ctx); err != nil {
		if errors.Is(err, launch.ErrNotValid) {
			fmt.Println(ErrorStyle.Render("The installation is not valid.") +
				" Run " + CmdStyle.Render("easelboot repair") + " to fix it.")
		}
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// newEngine assembles the validation engine over the persisted
// configuration, with the full check set and, when interactive, the
// terminal repair surface as its maintainer.
func newEngine(ctx context.Context, interactive bool) *validation.Engine {
	provider := config.NewProvider()
	runner := runtime.NewProcessRunner()
	prober := runtime.NewProber()

	device := ""
	if cfg, err := provider.Load(ctx, config.LoadOptions{}); err == nil {
		device = string(cfg.Device)
	}

	engine := validation.NewEngine(provider,
		validation.DefaultChecks(prober, gpu.ForDevice(device, runner, prober)))
	engine.Recorder = telemetry.NewLogRecorder(log.Default())
	if interactive {
		engine.Maintainer = maintenance.NewSurface(runner, prober, provider)
	}
	return engine
}
