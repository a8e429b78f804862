// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/maintenance"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run one validation pass over the installation",
	Long: `Run one validation pass over the installation.

Every health item is checked and the full report is printed. The command
never repairs anything; it exits 1 when the report carries errors so
scripts and the desktop shell can branch on the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context())
	},
}

func runValidate(ctx context.Context) error {
	engine := newEngine(ctx, false)

	report, err := engine.Validate(ctx)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Println(maintenance.RenderReport(report))

	if !report.OverallValid() {
		return &ExitError{Code: 1, Err: fmt.Errorf("the installation is not valid")}
	}
	return nil
}
