// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easelstudio/easelboot/internal/maintenance"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Interactively repair the installation",
	Long: `Interactively repair the installation.

The detect-repair-revalidate loop: each pass re-checks every health item,
then offers one repair action per problem. After every action the whole
installation is validated again, so a fix for one problem never hides a
regression in another. Leave the menu at any time; the loop ends without
touching anything further.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepair(cmd.Context())
	},
}

func runRepair(ctx context.Context) error {
	engine := newEngine(ctx, true)

	report, err := engine.ValidateAndRepair(ctx)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Println(maintenance.RenderReport(report))

	if !report.OverallValid() {
		return &ExitError{Code: 1, Err: fmt.Errorf("the installation still has unresolved problems")}
	}
	fmt.Println(SuccessStyle.Render("The installation is valid."))
	return nil
}
