// SPDX-License-Identifier: MPL-2.0

// Package telemetry provides the event-recording seam used by tracked
// operations. Operations call Record explicitly at entry; no method
// interception or middleware is involved. The actual sink is a collaborator
// concern: the default recorder only writes to the structured log, and a
// no-op recorder exists for tests and for users who disable reporting.
package telemetry

import "github.com/charmbracelet/log"

// Recorder receives named operation events.
type Recorder interface {
	// Record notes that a tracked operation began. Implementations must be
	// cheap and non-blocking; callers invoke this inline.
	Record(event string)
}

type (
	logRecorder struct {
		logger *log.Logger
	}

	nopRecorder struct{}
)

// NewLogRecorder returns a Recorder that writes each event to the given
// structured logger at debug level.
func NewLogRecorder(logger *log.Logger) Recorder {
	return &logRecorder{logger: logger}
}

// Nop returns a Recorder that discards every event.
func Nop() Recorder { return nopRecorder{} }

func (r *logRecorder) Record(event string) {
	r.logger.Debug("event", "name", event)
}

func (nopRecorder) Record(string) {}
