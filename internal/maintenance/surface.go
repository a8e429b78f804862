// SPDX-License-Identifier: MPL-2.0

package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/easelstudio/easelboot/internal/config"
	"github.com/easelstudio/easelboot/internal/issue"
	"github.com/easelstudio/easelboot/internal/runtime"
	"github.com/easelstudio/easelboot/internal/telemetry"
	"github.com/easelstudio/easelboot/internal/validation"
	"github.com/easelstudio/easelboot/pkg/fspath"
	"github.com/easelstudio/easelboot/pkg/types"
)

const (
	// ActionLeave ends the repair loop without acting.
	ActionLeave ActionKey = "leave"
	// ActionInitConfig recreates the default configuration document.
	ActionInitConfig ActionKey = "init-config"
	// ActionRewriteBasePath prompts for and persists a new base path.
	ActionRewriteBasePath ActionKey = "rewrite-base-path"
	// ActionReinstallRuntime rebuilds the isolated Python runtime.
	ActionReinstallRuntime ActionKey = "reinstall-runtime"
	// ActionSwitchToCPU persists the cpu device selection.
	ActionSwitchToCPU ActionKey = "switch-to-cpu"
	// ActionGuidanceGit renders the git install guidance page.
	ActionGuidanceGit ActionKey = "guidance-git"
	// ActionGuidanceVCRedist renders the C++ runtime install guidance page.
	ActionGuidanceVCRedist ActionKey = "guidance-vc-redist"
)

type (
	// ActionKey identifies one repair action.
	ActionKey string

	// Action is one selectable repair entry. Each targets exactly one
	// validation item's condition.
	Action struct {
		// Key identifies the action.
		Key ActionKey
		// Label is the menu text shown to the user.
		Label string
		// Item is the validation item the action targets.
		Item validation.ItemName
	}

	// Prober answers tool availability questions. Satisfied by
	// *runtime.Prober.
	Prober interface {
		Probe(ctx context.Context, cmdline string) bool
	}

	// Surface is the interactive terminal repair collaborator. It satisfies
	// validation.Maintainer: one Repair call presents the report, performs at
	// most one action, and hands control back to the engine.
	Surface struct {
		// Runner executes repair commands (runtime reinstall). Required.
		Runner runtime.Runner
		// Prober tests tool availability before choosing a reinstall
		// strategy. Required.
		Prober Prober
		// Provider loads the configuration actions mutate. Required.
		Provider config.Provider
		// LoadOptions are passed to every configuration load.
		LoadOptions config.LoadOptions
		// Save persists a mutated configuration. When nil, config.Save is
		// used; tests point it elsewhere.
		Save func(*config.Config) error
		// Stdout receives the rendered report and guidance pages. When nil,
		// os.Stdout is used.
		Stdout io.Writer
		// Recorder receives action events. When nil, events are dropped.
		Recorder telemetry.Recorder
		// Logger receives action records. When nil, the package default
		// logger is used.
		Logger *log.Logger

		// chooseAction and promptPath are the interactive seams; tests
		// replace them to script the user.
		chooseAction func(actions []Action) (ActionKey, error)
		promptPath   func(current string) (string, error)
	}
)

// NewSurface creates a Surface with the interactive huh forms wired in.
func NewSurface(runner runtime.Runner, prober Prober, provider config.Provider) *Surface {
	return &Surface{
		Runner:       runner,
		Prober:       prober,
		Provider:     provider,
		chooseAction: chooseActionForm,
		promptPath:   promptPathForm,
	}
}

// Repair implements validation.Maintainer. It renders the report, offers one
// action per failing item plus "leave", and performs the chosen action.
// acted=false means the user abandoned the surface.
func (s *Surface) Repair(ctx context.Context, report validation.Report) (bool, error) {
	fmt.Fprint(s.stdout(), "\n"+RenderReport(report)+"\n")

	actions := ActionsFor(report)
	if len(actions) == 0 {
		return false, nil
	}

	key, err := s.choose(actions)
	if err != nil {
		// An aborted form (ctrl-c) is an abandoned surface, not a failure.
		s.logger().Debug("repair menu aborted", "err", err)
		return false, nil
	}
	if key == ActionLeave {
		return false, nil
	}

	s.recorder().Record("maintenance." + string(key))
	s.logger().Info("repair action", "action", key)

	return true, s.perform(ctx, key)
}

// ActionsFor maps a report's issues onto the repair menu, one action per
// failing item, in report order, with "leave" appended.
func ActionsFor(report validation.Report) []Action {
	var actions []Action
	for _, item := range report.Issues() {
		switch item.Name {
		case validation.ItemConfig:
			actions = append(actions, Action{ActionInitConfig, "Recreate the default configuration", item.Name})
		case validation.ItemBasePath:
			actions = append(actions, Action{ActionRewriteBasePath, "Change the base path", item.Name})
		case validation.ItemGit:
			actions = append(actions, Action{ActionGuidanceGit, "Show how to install git", item.Name})
		case validation.ItemVCRedist:
			actions = append(actions, Action{ActionGuidanceVCRedist, "Show how to install the Visual C++ runtime", item.Name})
		case validation.ItemRuntime:
			actions = append(actions, Action{ActionReinstallRuntime, "Reinstall the isolated Python runtime", item.Name})
		case validation.ItemGPU:
			actions = append(actions, Action{ActionSwitchToCPU, "Continue without a GPU (use the CPU)", item.Name})
		}
	}
	if len(actions) > 0 {
		actions = append(actions, Action{ActionLeave, "Leave (fix things manually)", ""})
	}
	return actions
}

// perform dispatches one chosen action.
func (s *Surface) perform(ctx context.Context, key ActionKey) error {
	switch key {
	case ActionInitConfig:
		return s.initConfig(ctx)
	case ActionRewriteBasePath:
		return s.rewriteBasePath(ctx)
	case ActionSwitchToCPU:
		return s.switchToCPU(ctx)
	case ActionReinstallRuntime:
		return s.reinstallRuntime(ctx)
	case ActionGuidanceGit:
		return s.showGuidance(issue.GitNotFoundId)
	case ActionGuidanceVCRedist:
		return s.showGuidance(issue.SystemLibraryMissingId)
	default:
		return fmt.Errorf("unknown repair action %q", key)
	}
}

// initConfig recreates the default configuration document and immediately
// prompts for the base path, since a default document records none.
func (s *Surface) initConfig(ctx context.Context) error {
	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to recreate configuration: %w", err)
	}
	return s.rewriteBasePath(ctx)
}

// rewriteBasePath prompts for a new base path and persists it.
func (s *Surface) rewriteBasePath(ctx context.Context) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	path, err := s.promptPath(cfg.BasePath.String())
	if err != nil {
		return fmt.Errorf("base path prompt aborted: %w", err)
	}
	expanded := fspath.ExpandUser(types.FilesystemPath(strings.TrimSpace(path)))

	cfg.BasePath = config.BasePath(expanded)
	return s.save(cfg)
}

// switchToCPU persists the cpu device selection, which also turns the GPU
// check into a skip on the next pass.
func (s *Surface) switchToCPU(ctx context.Context) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Device = config.DeviceCPU
	return s.save(cfg)
}

// showGuidance renders one issue page. The action mutates nothing; the user
// applies the guidance outside and the engine revalidates afterwards.
func (s *Surface) showGuidance(id issue.Id) error {
	page := issue.Get(id)
	if page == nil {
		return fmt.Errorf("no guidance page for issue %d", id)
	}
	rendered, err := page.Render("auto")
	if err != nil {
		// Fall back to the raw markdown rather than hiding the guidance.
		rendered = string(page.MarkdownMsg())
	}
	fmt.Fprint(s.stdout(), rendered)
	return nil
}

func (s *Surface) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := s.Provider.Load(ctx, s.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for repair: %w", err)
	}
	return cfg, nil
}

func (s *Surface) save(cfg *config.Config) error {
	if s.Save != nil {
		return s.Save(cfg)
	}
	return config.Save(cfg)
}

func (s *Surface) choose(actions []Action) (ActionKey, error) {
	if s.chooseAction != nil {
		return s.chooseAction(actions)
	}
	return chooseActionForm(actions)
}

func (s *Surface) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}

func (s *Surface) recorder() telemetry.Recorder {
	if s.Recorder != nil {
		return s.Recorder
	}
	return telemetry.Nop()
}

func (s *Surface) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// chooseActionForm presents the repair menu as a huh select.
func chooseActionForm(actions []Action) (ActionKey, error) {
	options := make([]huh.Option[ActionKey], len(actions))
	for i, action := range actions {
		options[i] = huh.NewOption(action.Label, action.Key)
	}

	var key ActionKey
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[ActionKey]().
			Title("What would you like to repair?").
			Options(options...).
			Value(&key),
	))
	if err := form.Run(); err != nil {
		return ActionLeave, err
	}
	return key, nil
}

// promptPathForm asks for the new base path with a huh input.
func promptPathForm(current string) (string, error) {
	value := current
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Base path").
			Description("Directory holding your Easel Studio data (app/, .venv/, extensions/)").
			Value(&value).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("the base path must not be empty")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}
