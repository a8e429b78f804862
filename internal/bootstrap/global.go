// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"errors"
	"sync"
)

// ErrAlreadyInitialized is the sentinel error wrapped by AlreadyInitializedError.
var ErrAlreadyInitialized = errors.New("stage tracker already initialized")

// AlreadyInitializedError reports a second Initialize call in the same
// process. It marks a bootstrap ordering bug, not an environmental
// condition: callers should treat it as fatal rather than retry.
type AlreadyInitializedError struct{}

// Error implements the error interface.
func (e *AlreadyInitializedError) Error() string {
	return "stage tracker already initialized: Initialize must be called exactly once per process"
}

// Unwrap returns ErrAlreadyInitialized for errors.Is() compatibility.
func (e *AlreadyInitializedError) Unwrap() error { return ErrAlreadyInitialized }

var (
	globalMu      sync.Mutex
	globalTracker *Tracker
)

// Initialize creates the process-wide tracker, idle and unsignaled. A
// second call fails with *AlreadyInitializedError and leaves the first
// tracker untouched.
func Initialize() (*Tracker, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalTracker != nil {
		return nil, &AlreadyInitializedError{}
	}

	globalTracker = NewTracker()
	return globalTracker, nil
}

// Current returns the process-wide tracker, or nil before Initialize.
func Current() *Tracker {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalTracker
}

// Reset clears the process-wide tracker. Call from test cleanup only.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalTracker = nil
}
