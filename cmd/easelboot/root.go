// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgDir allows overriding the configuration directory
	cfgDir string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "easelboot",
		Short: "Bootstrap core for the Easel Studio desktop app",
		Long: TitleStyle.Render("easelboot") + SubtitleStyle.Render(" - Bootstrap core for Easel Studio") + `

easelboot installs, validates, repairs, and launches a local Easel Studio
installation: the studio server, its isolated Python runtime, and the
extensions, models, and user data living under one base path.

` + SubtitleStyle.Render("Typical flow:") + `
  1. Run 'easelboot validate' to see the installation's health
  2. Run 'easelboot repair' to fix what the report flags
  3. Run 'easelboot launch' to start the studio server

` + SubtitleStyle.Render("Examples:") + `
  easelboot launch               Validate, migrate if pending, and start
  easelboot validate             One validation pass, exit 1 when invalid
  easelboot repair               Interactive detect-repair-revalidate loop
  easelboot migrate ~/old-easel  Pull extensions from an old installation
  easelboot config show          Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "configuration directory (default is platform-specific)")

	// Add subcommands
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// fang overrides rootCmd.Version, so the version goes through its option.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig applies the config directory override and verbosity before
// any subcommand runs.
func initRootConfig() {
	if cfgDir != "" {
		config.SetConfigDirOverride(cfgDir)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{})
	if err != nil {
		// A broken document is a validation finding, not a CLI failure;
		// surface it and let the engine's synthetic config item take over.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		return
	}

	// Apply verbose from config if not set via flag
	if !verbose && cfg.UI.Verbose {
		verbose = true
		log.SetLevel(log.DebugLevel)
	}
}
