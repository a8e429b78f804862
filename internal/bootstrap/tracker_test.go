// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"slices"
	"testing"
	"time"
)

func TestTracker_StartsIdle(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	info := tr.CurrentStage()

	if info.Stage != StageIdle {
		t.Errorf("initial stage = %q, want idle", info.Stage)
	}
	if info.Progress != ProgressIndeterminate {
		t.Errorf("initial progress = %d, want indeterminate", info.Progress)
	}
	if info.Timestamp.IsZero() {
		t.Error("initial info should carry a timestamp")
	}
}

func TestTracker_SetStageReplacesCurrent(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.SetStage(Info{Stage: StagePreflight, Progress: 10, Message: "checking environment"})

	info := tr.CurrentStage()
	if info.Stage != StagePreflight {
		t.Errorf("stage = %q, want preflight", info.Stage)
	}
	if info.Progress != 10 {
		t.Errorf("progress = %d, want 10", info.Progress)
	}
	if info.Timestamp.IsZero() {
		t.Error("SetStage should stamp a zero timestamp")
	}
}

func TestTracker_SetStageKeepsExplicitTimestamp(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tr := NewTracker()
	tr.SetStage(Info{Stage: StageStarting, Timestamp: stamp})

	if got := tr.CurrentStage().Timestamp; !got.Equal(stamp) {
		t.Errorf("timestamp = %v, want %v", got, stamp)
	}
}

func TestTracker_NotifiesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	var order []string
	tr.SubscribeStage(func(Info) { order = append(order, "first") })
	tr.SubscribeStage(func(Info) { order = append(order, "second") })
	tr.SubscribeStage(func(Info) { order = append(order, "third") })

	tr.SetStage(Info{Stage: StagePreflight})

	if !slices.Equal(order, []string{"first", "second", "third"}) {
		t.Errorf("dispatch order = %v, want registration order", order)
	}
}

func TestTracker_NotificationIsSynchronous(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	var seen []Stage
	tr.SubscribeStage(func(info Info) { seen = append(seen, info.Stage) })

	tr.SetStage(Info{Stage: StagePreflight})
	tr.SetStage(Info{Stage: StageRuntimeSetup})

	// Both notifications completed before SetStage returned.
	if !slices.Equal(seen, []Stage{StagePreflight, StageRuntimeSetup}) {
		t.Errorf("observed stages = %v, want [preflight runtime-setup]", seen)
	}
}

func TestTracker_UnsubscribeStage(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	var first, second int
	handle := tr.SubscribeStage(func(Info) { first++ })
	tr.SubscribeStage(func(Info) { second++ })

	tr.SetStage(Info{Stage: StagePreflight})
	tr.UnsubscribeStage(handle)
	tr.SetStage(Info{Stage: StageStarting})

	if first != 1 {
		t.Errorf("unsubscribed observer ran %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining observer ran %d times, want 2", second)
	}

	// Unknown handles are ignored.
	tr.UnsubscribeStage(-1)
	tr.UnsubscribeStage(99)
}

func TestTracker_SubscriberCanReadCurrentStage(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	var observed Stage
	tr.SubscribeStage(func(Info) {
		// Dispatch happens outside the tracker lock, so reading back
		// must not deadlock.
		observed = tr.CurrentStage().Stage
	})

	tr.SetStage(Info{Stage: StageReady})

	if observed != StageReady {
		t.Errorf("subscriber observed %q, want ready", observed)
	}
}

func TestTracker_OneShotSignalsFireOnce(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	var control, env int
	tr.OnControlReady(func() { control++ })
	tr.OnEnvLoaded(func() { env++ })

	tr.SignalControlReady()
	tr.SignalControlReady()
	tr.SignalControlReady()
	tr.SignalEnvLoaded()
	tr.SignalEnvLoaded()

	if control != 1 {
		t.Errorf("control-ready subscriber ran %d times, want 1", control)
	}
	if env != 1 {
		t.Errorf("env-loaded subscriber ran %d times, want 1", env)
	}

	if !tr.ControlReadyFired() {
		t.Error("ControlReadyFired() should report true after the signal")
	}
	if !tr.EnvLoadedFired() {
		t.Error("EnvLoadedFired() should report true after the signal")
	}
}

func TestTracker_SignalsAreIndependent(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.SignalControlReady()

	if tr.EnvLoadedFired() {
		t.Error("firing control-ready must not fire env-loaded")
	}
}

func TestTracker_LateSignalSubscriberRunsImmediately(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.SignalControlReady()

	ran := false
	tr.OnControlReady(func() { ran = true })

	if !ran {
		t.Error("subscriber added after the signal should run immediately")
	}
}

func TestTracker_NilSignalSubscriberIgnored(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.OnControlReady(nil)
	tr.SignalControlReady()
}

func TestStage_IsValid(t *testing.T) {
	t.Parallel()

	validStages := []Stage{
		StageIdle, StagePreflight, StageMigrate, StageRuntimeSetup,
		StageStarting, StageMaintenance, StageReady, StageError,
	}
	for _, stage := range validStages {
		if valid, _ := stage.IsValid(); !valid {
			t.Errorf("Stage(%q).IsValid() = false, want true", stage)
		}
	}

	if valid, errs := Stage("installing").IsValid(); valid {
		t.Error("unknown stage should be invalid")
	} else if len(errs) != 1 {
		t.Errorf("expected 1 error, got %d", len(errs))
	}
}
