// SPDX-License-Identifier: MPL-2.0

// Package gpu implements the hardware capability collaborator consumed by
// the validation engine. A Validator answers one question: can this machine
// accelerate the studio, and with what. The engine treats the answer as
// opaque and maps it onto a single validation item.
//
// The default validators shell out to driver diagnostic tools rather than
// touching the hardware directly; platform GPU enumeration heuristics live
// outside this repository.
package gpu

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	execruntime "github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/pkg/platform"
	"github.com/easelstudio/easelboot/pkg/version"
)

// MinimumDriverVersion is the oldest NVIDIA driver the studio's CUDA wheels
// support. Anything below it fails capability validation with an upgrade
// hint rather than crashing later inside the interpreter.
const MinimumDriverVersion = "580"

type (
	// Capability is the validated answer of one capability probe.
	Capability struct {
		// IsValid reports whether a usable accelerator was found.
		IsValid bool
		// GPU describes the accelerator when IsValid.
		GPU string
		// Err carries the failure description when !IsValid.
		Err string
	}

	// Validator produces one Capability per call. Implementations must be
	// safe for repeated calls; the engine re-validates after every repair.
	Validator interface {
		Validate(ctx context.Context) Capability
	}

	// Prober answers tool availability questions. Satisfied by
	// *runtime.Prober.
	Prober interface {
		Probe(ctx context.Context, cmdline string) bool
	}

	// NvidiaValidator validates the NVIDIA driver stack by probing for
	// nvidia-smi and extracting the driver version from its banner.
	NvidiaValidator struct {
		// Runner executes nvidia-smi. Required.
		Runner execruntime.Runner
		// Prober tests nvidia-smi availability before running it. Required.
		Prober Prober
		// HostPrefix is prepended to the nvidia-smi argv so the tool is
		// reached from inside an application sandbox. Defaults from
		// platform detection in NewNvidia.
		HostPrefix []string
		// Logger receives probe details. When nil, the package default
		// logger is used.
		Logger *log.Logger
	}

	// MPSValidator validates Apple Metal Performance Shaders availability.
	// MPS needs no driver probe: it is present exactly on Apple silicon.
	MPSValidator struct {
		// GOOS and GOARCH override runtime detection in tests. Empty means
		// the real values.
		GOOS, GOARCH string
	}

	// AutoValidator tries NVIDIA first, then MPS, and fails when neither
	// accelerator is usable.
	AutoValidator struct {
		Nvidia Validator
		MPS    Validator
	}

	// StaticValidator returns a fixed Capability. Used for the cpu device
	// selection and as a test double.
	StaticValidator struct {
		Result Capability
	}
)

// NewNvidia creates an NvidiaValidator with the platform's sandbox escape
// prefix.
func NewNvidia(runner execruntime.Runner, prober Prober) *NvidiaValidator {
	return &NvidiaValidator{
		Runner:     runner,
		Prober:     prober,
		HostPrefix: platform.HostCommandPrefix(),
	}
}

// NewAuto creates the default detection chain: NVIDIA, then MPS.
func NewAuto(runner execruntime.Runner, prober Prober) *AutoValidator {
	return &AutoValidator{
		Nvidia: NewNvidia(runner, prober),
		MPS:    &MPSValidator{},
	}
}

// ForDevice returns the Validator matching a configured device selection.
// The empty selection means auto-detect. The cpu selection returns a static
// valid result; the check layer normally short-circuits it to skipped
// before any validator runs.
func ForDevice(device string, runner execruntime.Runner, prober Prober) Validator {
	switch device {
	case "nvidia":
		return NewNvidia(runner, prober)
	case "mps":
		return &MPSValidator{}
	case "cpu":
		return &StaticValidator{Result: Capability{IsValid: true, GPU: "CPU"}}
	default:
		return NewAuto(runner, prober)
	}
}

// Validate probes for nvidia-smi, runs it, and judges the reported driver
// version against MinimumDriverVersion. A banner without a version token
// passes with the version recorded as unknown; only a missing tool, a
// failing tool, or a too-old driver fail.
func (v *NvidiaValidator) Validate(ctx context.Context) Capability {
	if !v.Prober.Probe(ctx, "nvidia-smi") {
		return Capability{Err: "nvidia-smi not found; is the NVIDIA driver installed?"}
	}

	var lines []string
	argv := append(append([]string{}, v.HostPrefix...), "nvidia-smi")
	code, err := v.Runner.Run(ctx, execruntime.Command{
		Name:     argv[0],
		Args:     argv[1:],
		OnStdout: func(line string) { lines = append(lines, line) },
	})
	if err != nil {
		return Capability{Err: fmt.Sprintf("nvidia-smi could not be run: %v", err)}
	}
	if !code.IsSuccess() {
		return Capability{Err: fmt.Sprintf("nvidia-smi exited with code %s", code)}
	}

	banner := strings.Join(lines, "\n")
	ver, found := version.ParseDriverVersion(banner)
	if !found {
		// Old drivers print banners without the token. Treat the GPU as
		// usable and leave the judgment to the studio itself.
		v.logger().Debug("nvidia-smi banner carries no driver version token")
		return Capability{IsValid: true, GPU: "NVIDIA (driver version unknown)"}
	}

	if version.IsBelowMinimum(ver, MinimumDriverVersion) {
		return Capability{Err: fmt.Sprintf(
			"NVIDIA driver %s is below the required minimum %s; please update the driver",
			ver, MinimumDriverVersion)}
	}

	return Capability{IsValid: true, GPU: "NVIDIA driver " + ver}
}

func (v *NvidiaValidator) logger() *log.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return log.Default()
}

// Validate reports MPS as usable exactly on darwin/arm64.
func (v *MPSValidator) Validate(context.Context) Capability {
	goos, goarch := v.GOOS, v.GOARCH
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}

	if goos == platform.Darwin && goarch == "arm64" {
		return Capability{IsValid: true, GPU: "Apple silicon (MPS)"}
	}
	return Capability{Err: fmt.Sprintf("MPS requires Apple silicon, running on %s/%s", goos, goarch)}
}

// Validate returns the first usable accelerator in the chain, or an invalid
// Capability naming the problem when none is found.
func (v *AutoValidator) Validate(ctx context.Context) Capability {
	if c := v.Nvidia.Validate(ctx); c.IsValid {
		return c
	}
	if c := v.MPS.Validate(ctx); c.IsValid {
		return c
	}
	return Capability{Err: "no supported accelerator detected (NVIDIA GPU or Apple silicon required)"}
}

// Validate returns the fixed result.
func (v *StaticValidator) Validate(context.Context) Capability {
	return v.Result
}
