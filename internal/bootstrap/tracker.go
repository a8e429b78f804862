// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// StageFunc observes stage transitions.
	StageFunc func(Info)

	// SignalFunc observes a one-shot lifecycle signal.
	SignalFunc func()

	// Tracker holds the current Info and the two one-shot signals.
	//
	// One goroutine owns SetStage and the Signal methods; readers and
	// subscribers may call from anywhere. Subscriber slots are append-only
	// so dispatch order always matches registration order; unsubscribing
	// nils out a slot instead of compacting the slice.
	Tracker struct {
		// Logger receives transition debug records. When nil, the package
		// default logger is used.
		Logger *log.Logger

		mu           sync.Mutex
		current      Info
		stageSubs    []StageFunc
		controlReady oneShot
		envLoaded    oneShot
	}

	// oneShot fires its subscriber list at most once. Subscribers added
	// after the fact run immediately, so late observers cannot miss it.
	oneShot struct {
		fired bool
		subs  []SignalFunc
	}
)

// NewTracker creates a Tracker whose current stage is idle.
func NewTracker() *Tracker {
	return &Tracker{current: idleInfo()}
}

// SetStage replaces the current Info and notifies stage subscribers
// synchronously in registration order. A zero Timestamp is stamped with
// the current time. Subscribers must not block.
func (t *Tracker) SetStage(info Info) {
	if info.Timestamp.IsZero() {
		info.Timestamp = time.Now()
	}

	t.mu.Lock()
	previous := t.current
	t.current = info
	subs := t.stageSubs
	t.mu.Unlock()

	t.logger().Debug("stage transition",
		"from", previous.Stage, "to", info.Stage, "message", info.Message)

	for _, sub := range subs {
		if sub != nil {
			sub(info)
		}
	}
}

// CurrentStage returns the latest Info. It never blocks on subscribers.
func (t *Tracker) CurrentStage() Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// SubscribeStage registers fn for every subsequent transition and returns
// a handle for UnsubscribeStage.
func (t *Tracker) SubscribeStage(fn StageFunc) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageSubs = append(t.stageSubs, fn)
	return len(t.stageSubs) - 1
}

// UnsubscribeStage removes the subscriber behind handle. Unknown handles
// are ignored.
func (t *Tracker) UnsubscribeStage(handle int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle >= 0 && handle < len(t.stageSubs) {
		t.stageSubs[handle] = nil
	}
}

// SignalControlReady fires the control-channel-ready signal. The first
// call notifies subscribers; every later call is a silent no-op.
func (t *Tracker) SignalControlReady() {
	t.fire(&t.controlReady, "control channel ready")
}

// OnControlReady registers fn for the control-channel-ready signal. If the
// signal already fired, fn runs immediately.
func (t *Tracker) OnControlReady(fn SignalFunc) {
	t.subscribe(&t.controlReady, fn)
}

// ControlReadyFired reports whether the control-channel-ready signal fired.
func (t *Tracker) ControlReadyFired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.controlReady.fired
}

// SignalEnvLoaded fires the environment-fully-loaded signal. The first
// call notifies subscribers; every later call is a silent no-op.
func (t *Tracker) SignalEnvLoaded() {
	t.fire(&t.envLoaded, "environment fully loaded")
}

// OnEnvLoaded registers fn for the environment-fully-loaded signal. If the
// signal already fired, fn runs immediately.
func (t *Tracker) OnEnvLoaded(fn SignalFunc) {
	t.subscribe(&t.envLoaded, fn)
}

// EnvLoadedFired reports whether the environment-fully-loaded signal fired.
func (t *Tracker) EnvLoadedFired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.envLoaded.fired
}

func (t *Tracker) fire(s *oneShot, name string) {
	t.mu.Lock()
	if s.fired {
		t.mu.Unlock()
		return
	}
	s.fired = true
	subs := s.subs
	s.subs = nil
	t.mu.Unlock()

	t.logger().Debug("lifecycle signal", "signal", name)

	for _, sub := range subs {
		if sub != nil {
			sub()
		}
	}
}

func (t *Tracker) subscribe(s *oneShot, fn SignalFunc) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	if s.fired {
		t.mu.Unlock()
		fn()
		return
	}
	s.subs = append(s.subs, fn)
	t.mu.Unlock()
}

func (t *Tracker) logger() *log.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return log.Default()
}
