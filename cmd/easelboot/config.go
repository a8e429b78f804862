// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage easelboot configuration",
	Long: `Manage easelboot configuration.

Configuration is stored in:
  - Linux: ~/.config/easelboot/config.cue
  - macOS: ~/Library/Application Support/easelboot/config.cue
  - Windows: %APPDATA%\easelboot\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path, pathErr := config.FilePath(); pathErr == nil {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), path)
		fmt.Println()
	}

	value := func(s string) string {
		if s == "" {
			return SubtitleStyle.Render("(unset)")
		}
		return SuccessStyle.Render(s)
	}

	fmt.Printf("%s: %s\n", CmdStyle.Render("base_path"), value(string(cfg.BasePath)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("install_state"), value(string(cfg.InstallState)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("device"), value(string(cfg.Device)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("migration_source"), value(string(cfg.MigrationSource)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("launch.host"), value(cfg.Launch.Host.String()))
	fmt.Printf("%s: %s\n", CmdStyle.Render("launch.port"), SuccessStyle.Render(cfg.Launch.Port.String()))
	if len(cfg.Launch.ExtraArgs) > 0 {
		fmt.Printf("%s: %s\n", CmdStyle.Render("launch.extra_args"),
			SuccessStyle.Render(strings.Join(cfg.Launch.ExtraArgs, " ")))
	}
	return nil
}

func initConfigFile() error {
	if err := config.CreateDefaultConfig(); err != nil {
		return err
	}
	path, err := config.FilePath()
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Created ") + CmdStyle.Render(path))
	return nil
}

func showConfigPath() error {
	path, err := config.FilePath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// setConfigValue loads the document, applies one key mutation, validates,
// and persists. Unknown keys fail with the supported list so typos do not
// silently write nothing.
func setConfigValue(ctx context.Context, key, value string) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch key {
	case "base_path":
		expanded := fspath.ExpandUser(types.FilesystemPath(strings.TrimSpace(value)))
		cfg.BasePath = config.BasePath(expanded)
	case "install_state":
		cfg.InstallState = config.InstallState(value)
	case "device":
		cfg.Device = config.DeviceSelection(value)
	case "migration_source":
		expanded := fspath.ExpandUser(types.FilesystemPath(strings.TrimSpace(value)))
		cfg.MigrationSource = config.BasePath(expanded)
	case "launch.host":
		cfg.Launch.Host = config.ListenHost(value)
	case "launch.port":
		port, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("launch.port must be a number: %w", convErr)
		}
		cfg.Launch.Port = types.ListenPort(port)
	case "ui.verbose":
		enabled, convErr := strconv.ParseBool(value)
		if convErr != nil {
			return fmt.Errorf("ui.verbose must be true or false: %w", convErr)
		}
		cfg.UI.Verbose = enabled
	default:
		return fmt.Errorf("unknown configuration key %q (supported: base_path, install_state, device, migration_source, launch.host, launch.port, ui.verbose)", key)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return fmt.Errorf("rejected %s=%q: %v", key, value, errs)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Set"), CmdStyle.Render(key), value)
	return nil
}
