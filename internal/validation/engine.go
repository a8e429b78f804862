// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/telemetry"
)

type (
	// Subscriber observes every published report. Dispatch is synchronous
	// and ordered; subscribers must not block.
	Subscriber func(Report)

	// Maintainer is the repair surface collaborator. Repair presents the
	// report, lets the user perform at most one repair action, and reports
	// whether an action was taken. acted=false means the user abandoned
	// the surface, which ends the repair loop without error.
	Maintainer interface {
		Repair(ctx context.Context, report Report) (acted bool, err error)
	}

	// Engine validates one installation record and drives the
	// detect, repair, revalidate loop.
	//
	// Each pass reloads the record from the persisted configuration:
	// repair actions rewrite configuration, and a record read before the
	// rewrite is stale. The engine never re-runs checks without an
	// intervening repair action; the conditions being checked (missing
	// files, missing tools) do not self-heal, so polling would only burn
	// probe timeouts.
	Engine struct {
		// Maintainer presents the repair surface. When nil the engine is
		// non-interactive: the first report is also the last.
		Maintainer Maintainer
		// LoadOptions are passed to every configuration load.
		LoadOptions config.LoadOptions
		// Recorder receives operation events. When nil, events are dropped.
		Recorder telemetry.Recorder
		// Logger receives pass summaries. When nil, the package default
		// logger is used.
		Logger *log.Logger

		provider config.Provider
		checks   []Check

		mu          sync.Mutex
		subscribers []Subscriber
	}
)

// NewEngine creates an Engine over the given record source and check set.
func NewEngine(provider config.Provider, checks []Check) *Engine {
	return &Engine{provider: provider, checks: checks}
}

// Subscribe registers fn for every subsequently published report.
func (e *Engine) Subscribe(fn Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// Validate runs one full validation pass: load the installation record,
// fan out all checks concurrently, join, and publish the assembled report.
//
// A record that cannot be produced (malformed configuration, or no
// installation recorded at all) yields a report with the single synthetic
// config item; that is a published result, not an error. The returned
// error is non-nil only when ctx ends before the pass completes.
func (e *Engine) Validate(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("validation canceled: %w", err)
	}

	e.recorder().Record("validation.pass")
	passID := uuid.NewString()

	inst, err := e.loadInstallation(ctx)
	if err != nil {
		report := NewReport(passID, []Item{errItem(ItemConfig,
			fmt.Sprintf("configuration cannot be loaded: %v", err))})
		e.publish(report)
		return report, nil
	}
	if !inst.Recorded() {
		report := NewReport(passID, []Item{errItem(ItemConfig,
			"no installation recorded in configuration")})
		e.publish(report)
		return report, nil
	}

	items := e.runChecks(ctx, inst)
	if err := ctx.Err(); err != nil {
		// A canceled context fails probes spuriously; the items would
		// blame the environment for the caller's cancellation.
		return Report{}, fmt.Errorf("validation canceled: %w", err)
	}

	report := NewReport(passID, items)
	e.logger().Info("validation pass complete",
		"pass", passID, "valid", report.OverallValid(), "issues", len(report.Issues()))
	e.publish(report)
	return report, nil
}

// ValidateAndRepair validates, and while the report carries errors, hands
// control to the maintainer for one repair action at a time, revalidating
// after each. It terminates when a pass is valid, when no maintainer is
// wired, or when the user abandons the surface; the last report is
// returned in all three cases without error.
func (e *Engine) ValidateAndRepair(ctx context.Context) (Report, error) {
	report, err := e.Validate(ctx)
	if err != nil {
		return report, err
	}

	for !report.OverallValid() {
		if e.Maintainer == nil {
			return report, nil
		}

		e.recorder().Record("validation.repair")
		acted, repairErr := e.Maintainer.Repair(ctx, report)
		if repairErr != nil {
			// The unresolved item resurfaces on the next pass; nothing
			// to escalate.
			e.logger().Warn("repair action failed", "err", repairErr)
		}
		if !acted {
			return report, nil
		}

		report, err = e.Validate(ctx)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// loadInstallation reads the persisted configuration and derives the
// point-in-time installation record for this pass.
func (e *Engine) loadInstallation(ctx context.Context) (config.Installation, error) {
	cfg, err := e.provider.Load(ctx, e.LoadOptions)
	if err != nil {
		return config.Installation{}, err
	}
	return cfg.Installation(), nil
}

// runChecks fans the check set out concurrently and joins all results.
// Checks touch disjoint resources, so the only coordination needed is the
// per-slot result placement, which also preserves registration order.
func (e *Engine) runChecks(ctx context.Context, inst config.Installation) []Item {
	items := make([]Item, len(e.checks))

	var wg sync.WaitGroup
	for i, check := range e.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items[i] = check.Run(ctx, inst)
		}()
	}
	wg.Wait()

	return items
}

// publish dispatches the report to subscribers in registration order,
// outside the engine lock so a subscriber may call back into the engine.
func (e *Engine) publish(report Report) {
	e.mu.Lock()
	subs := e.subscribers
	e.mu.Unlock()

	for _, fn := range subs {
		if fn != nil {
			fn(report)
		}
	}
}

func (e *Engine) recorder() telemetry.Recorder {
	if e.Recorder != nil {
		return e.Recorder
	}
	return telemetry.Nop()
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
