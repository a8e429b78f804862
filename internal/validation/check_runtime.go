// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/easelstudio/easelboot/internal/config"
)

// RuntimeCheck validates the isolated Python runtime's completeness: the
// venv interpreter must exist and the requirement manifests must be present
// and coherent, or the studio server cannot start reliably.
type RuntimeCheck struct{}

// pyprojectManifest is the slice of pyproject.toml the check cares about.
type pyprojectManifest struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// Name implements Check.
func (c *RuntimeCheck) Name() ItemName { return ItemRuntime }

// Run implements Check.
func (c *RuntimeCheck) Run(_ context.Context, inst config.Installation) Item {
	layout := layoutFor(inst)

	if !layout.Venv().Exists() {
		return errItem(ItemRuntime, fmt.Sprintf(
			"runtime interpreter %s is missing; the environment needs to be reinstalled", layout.Venv().Python()))
	}

	data, err := os.ReadFile(layout.Pyproject().String())
	if err != nil {
		return errItem(ItemRuntime, fmt.Sprintf("requirement manifest %s is missing", layout.Pyproject()))
	}
	if _, err := os.Stat(layout.UvLock().String()); err != nil {
		return errItem(ItemRuntime, fmt.Sprintf("dependency lock file %s is missing", layout.UvLock()))
	}

	var manifest pyprojectManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return errItem(ItemRuntime, fmt.Sprintf("requirement manifest %s does not parse: %v", layout.Pyproject(), err))
	}
	if strings.TrimSpace(manifest.Project.Name) == "" {
		return errItem(ItemRuntime, fmt.Sprintf("requirement manifest %s declares no project name", layout.Pyproject()))
	}

	return ok(ItemRuntime, "")
}
