// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/migration"
	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/types"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <source>",
	Short: "Migrate extensions from an existing installation",
	Long: `Migrate extensions from an existing installation.

The source is the base path of a previous Easel Studio installation. Its
extension set is exported as a snapshot (names and pinned versions, not
file contents) and restored into the current installation, where each
extension is fetched fresh at the pinned version.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), args[0])
	},
}

func runMigrate(ctx context.Context, source string) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("failed to load configuration: %w", err)}
	}
	if strings.TrimSpace(string(cfg.BasePath)) == "" {
		return &ExitError{Code: 1, Err: fmt.Errorf(
			"no installation recorded; set a base path first with 'easelboot config set base_path <dir>'")}
	}

	resolved := fspath.ExpandUser(types.FilesystemPath(strings.TrimSpace(source)))

	m := migration.NewMigrator(runtime.NewProcessRunner(), types.FilesystemPath(cfg.BasePath))
	if err := m.Migrate(ctx, resolved); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Println(SuccessStyle.Render("Migration complete.") +
		" Extensions from " + CmdStyle.Render(resolved.String()) + " are installed.")
	return nil
}
