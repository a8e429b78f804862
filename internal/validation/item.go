// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"errors"
	"fmt"
)

const (
	// StatusOK means the checked condition holds.
	StatusOK Status = "ok"
	// StatusWarning means a degraded but non-blocking condition.
	StatusWarning Status = "warning"
	// StatusError means an environmental condition prevents safe operation.
	// Errors are repairable in principle and never crash the process.
	StatusError Status = "error"
	// StatusSkipped means the check does not apply to this platform or
	// configuration.
	StatusSkipped Status = "skipped"
)

const (
	// ItemConfig is the synthetic item the engine emits when the persisted
	// configuration itself cannot produce an installation record.
	ItemConfig ItemName = "config"
	// ItemBasePath reports on the installation root directory.
	ItemBasePath ItemName = "base-path"
	// ItemGit reports on version-control client availability.
	ItemGit ItemName = "git"
	// ItemVCRedist reports on the Windows C++ runtime library.
	ItemVCRedist ItemName = "vc-redist"
	// ItemRuntime reports on the isolated Python runtime's completeness.
	ItemRuntime ItemName = "runtime"
	// ItemGPU reports on hardware acceleration capability.
	ItemGPU ItemName = "gpu"
)

// ErrInvalidStatus is the sentinel error wrapped by InvalidStatusError.
var ErrInvalidStatus = errors.New("invalid validation status")

type (
	// Status classifies one validation item's outcome.
	Status string

	// InvalidStatusError is returned when a Status value is not recognized.
	// It wraps ErrInvalidStatus for errors.Is() compatibility.
	InvalidStatusError struct {
		Value Status
	}

	// ItemName identifies a validation item. Identity is the name: each
	// pass recomputes every item's status wholesale, never mutating one in
	// place.
	ItemName string

	// Item is one named health check result for the current installation.
	Item struct {
		// Name identifies the checked condition.
		Name ItemName
		// Status classifies the outcome.
		Status Status
		// Detail describes the finding when Status is not ok. Optional.
		Detail string
	}
)

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// IsValid returns whether the Status is one of the defined statuses,
// and a list of validation errors if it is not.
func (s Status) IsValid() (bool, []error) {
	switch s {
	case StatusOK, StatusWarning, StatusError, StatusSkipped:
		return true, nil
	default:
		return false, []error{&InvalidStatusError{Value: s}}
	}
}

// Error implements the error interface for InvalidStatusError.
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid validation status %q", e.Value)
}

// Unwrap returns ErrInvalidStatus for errors.Is() compatibility.
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// String returns the string representation of the ItemName.
func (n ItemName) String() string { return string(n) }

// IsIssue reports whether the item needs user attention (warning or error).
func (i Item) IsIssue() bool {
	return i.Status == StatusWarning || i.Status == StatusError
}
