// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/gpu"
	"github.com/easelstudio/easelboot/internal/runtime"
)

type (
	// Check is one independent probe over the installation record and
	// ambient system state. Checks share no mutable state and may run
	// concurrently; each produces exactly one Item per pass.
	Check interface {
		// Name identifies the item this check produces.
		Name() ItemName
		// Run computes the item's status for the given installation.
		// Environmental problems are represented in the Item, never
		// returned as errors.
		Run(ctx context.Context, inst config.Installation) Item
	}

	// Prober answers tool availability questions within a bounded timeout.
	// Satisfied by *runtime.Prober.
	Prober interface {
		Probe(ctx context.Context, cmdline string) bool
	}
)

// DefaultChecks returns the full check set in canonical report order.
func DefaultChecks(prober Prober, validator gpu.Validator) []Check {
	return []Check{
		NewBasePathCheck(),
		&GitCheck{Prober: prober},
		&SystemLibraryCheck{},
		&RuntimeCheck{},
		&GPUCheck{Validator: validator},
	}
}

// ok, warn, errItem and skip build the four item shapes checks return.

func ok(name ItemName, detail string) Item {
	return Item{Name: name, Status: StatusOK, Detail: detail}
}

func warn(name ItemName, detail string) Item {
	return Item{Name: name, Status: StatusWarning, Detail: detail}
}

func errItem(name ItemName, detail string) Item {
	return Item{Name: name, Status: StatusError, Detail: detail}
}

func skip(name ItemName, detail string) Item {
	return Item{Name: name, Status: StatusSkipped, Detail: detail}
}

// Layout re-exported shorthand so checks and repair actions resolve paths
// the same way.
func layoutFor(inst config.Installation) runtime.Layout {
	return runtime.NewLayout(inst.BasePath)
}
