// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"errors"
	"fmt"
	"time"
)

const (
	// StageIdle is the initial stage before the bootstrap sequence starts.
	StageIdle Stage = "idle"
	// StagePreflight covers environment validation before any mutation.
	StagePreflight Stage = "preflight"
	// StageMigrate covers importing user data from a previous installation.
	StageMigrate Stage = "migrate"
	// StageRuntimeSetup covers provisioning the isolated Python runtime.
	StageRuntimeSetup Stage = "runtime-setup"
	// StageStarting covers launching the studio server.
	StageStarting Stage = "starting"
	// StageMaintenance is active while the repair surface owns the terminal.
	StageMaintenance Stage = "maintenance"
	// StageReady means the studio server is serving.
	StageReady Stage = "ready"
	// StageError is reachable from any stage and is terminal for the attempt.
	StageError Stage = "error"
)

// ProgressIndeterminate marks an Info whose completion ratio cannot be
// measured.
const ProgressIndeterminate = -1

// ErrInvalidStage is the sentinel error wrapped by InvalidStageError.
var ErrInvalidStage = errors.New("invalid stage")

type (
	// Stage names one phase of the bootstrap lifecycle.
	Stage string

	// InvalidStageError is returned when a Stage value is not recognized.
	// It wraps ErrInvalidStage for errors.Is() compatibility.
	InvalidStageError struct {
		Value Stage
	}

	// Info is one observed point of the bootstrap lifecycle. Exactly one
	// Info is current at a time; the error stage is reachable from any
	// other stage and nothing rolls back short of a full restart.
	Info struct {
		// Stage is the active phase.
		Stage Stage
		// Progress is 0-100, or ProgressIndeterminate.
		Progress int
		// Message is a short human-readable description of the phase.
		Message string
		// Err carries the failure description when Stage is StageError.
		Err string
		// Timestamp records when this Info became current.
		Timestamp time.Time
	}
)

// String returns the string representation of the Stage.
func (s Stage) String() string { return string(s) }

// IsValid returns whether the Stage is one of the defined stages,
// and a list of validation errors if it is not.
func (s Stage) IsValid() (bool, []error) {
	switch s {
	case StageIdle, StagePreflight, StageMigrate, StageRuntimeSetup,
		StageStarting, StageMaintenance, StageReady, StageError:
		return true, nil
	default:
		return false, []error{&InvalidStageError{Value: s}}
	}
}

// Error implements the error interface for InvalidStageError.
func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid stage %q", e.Value)
}

// Unwrap returns ErrInvalidStage for errors.Is() compatibility.
func (e *InvalidStageError) Unwrap() error { return ErrInvalidStage }

// idleInfo is the Info every tracker starts from.
func idleInfo() Info {
	return Info{
		Stage:     StageIdle,
		Progress:  ProgressIndeterminate,
		Timestamp: time.Now(),
	}
}
