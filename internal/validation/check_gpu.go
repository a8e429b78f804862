// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/gpu"
)

// GPUCheck delegates to the hardware capability collaborator and maps its
// opaque answer onto one item. When the installation explicitly selects the
// cpu device, no capability probe runs at all.
type GPUCheck struct {
	// Validator is the capability collaborator. Required.
	Validator gpu.Validator
}

// Name implements Check.
func (c *GPUCheck) Name() ItemName { return ItemGPU }

// Run implements Check.
func (c *GPUCheck) Run(ctx context.Context, inst config.Installation) Item {
	if inst.Device == config.DeviceCPU {
		return skip(ItemGPU, "hardware acceleration disabled by configuration")
	}

	capability := c.Validator.Validate(ctx)
	if !capability.IsValid {
		return errItem(ItemGPU, capability.Err)
	}
	return ok(ItemGPU, capability.GPU)
}
