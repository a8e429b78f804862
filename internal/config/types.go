// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/easelstudio/easelboot/pkg/types"
)

const (
	// InstallStateNone means no installation has been recorded yet.
	InstallStateNone InstallState = ""
	// InstallStateStarted means an installation began but never completed.
	InstallStateStarted InstallState = "started"
	// InstallStateInstalled means a completed installation is on record.
	InstallStateInstalled InstallState = "installed"
	// InstallStateUpgraded means the installation was carried over from an
	// older product layout.
	InstallStateUpgraded InstallState = "upgraded"

	// DeviceAuto defers accelerator selection to platform detection.
	DeviceAuto DeviceSelection = ""
	// DeviceNvidia selects CUDA acceleration through the NVIDIA driver stack.
	DeviceNvidia DeviceSelection = "nvidia"
	// DeviceMPS selects Apple Metal Performance Shaders.
	DeviceMPS DeviceSelection = "mps"
	// DeviceCPU runs the studio without hardware acceleration.
	DeviceCPU DeviceSelection = "cpu"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidInstallState is returned when an InstallState value is not recognized.
	ErrInvalidInstallState = errors.New("invalid install state")
	// ErrInvalidDeviceSelection is returned when a DeviceSelection value is not recognized.
	ErrInvalidDeviceSelection = errors.New("invalid device selection")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBasePath is the sentinel error wrapped by InvalidBasePathError.
	ErrInvalidBasePath = errors.New("invalid base path")
	// ErrInvalidListenHost is returned when a ListenHost value is whitespace-only.
	ErrInvalidListenHost = errors.New("invalid listen host")
	// ErrInvalidLaunchConfig is the sentinel error wrapped by InvalidLaunchConfigError.
	ErrInvalidLaunchConfig = errors.New("invalid launch config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// InstallState records how far installation got. The engine distinguishes
	// "never installed" (the zero value) from partial and complete installs.
	InstallState string

	// InvalidInstallStateError is returned when an InstallState value is not recognized.
	// It wraps ErrInvalidInstallState for errors.Is() compatibility.
	InvalidInstallStateError struct {
		Value InstallState
	}

	// DeviceSelection names the accelerator the studio runs on.
	DeviceSelection string

	// InvalidDeviceSelectionError is returned when a DeviceSelection value is not recognized.
	// It wraps ErrInvalidDeviceSelection for errors.Is() compatibility.
	InvalidDeviceSelectionError struct {
		Value DeviceSelection
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BasePath is the filesystem path to a managed installation root.
	// The zero value ("") is valid and means "not recorded"; non-zero values
	// must not be whitespace-only.
	BasePath string

	// InvalidBasePathError is returned when a BasePath value is non-empty
	// but whitespace-only. It wraps ErrInvalidBasePath for errors.Is().
	InvalidBasePathError struct {
		Value BasePath
	}

	// ListenHost is the address the studio server binds to.
	// It must be non-empty and not whitespace-only.
	ListenHost string

	// InvalidListenHostError is returned when a ListenHost value is empty
	// or whitespace-only. It wraps ErrInvalidListenHost for errors.Is().
	InvalidListenHostError struct {
		Value ListenHost
	}

	// InvalidLaunchConfigError is returned when a LaunchConfig has invalid fields.
	// It wraps ErrInvalidLaunchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidLaunchConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LaunchConfig configures how the studio server process is started.
	LaunchConfig struct {
		// Host is the address the server binds to.
		Host ListenHost `json:"host" mapstructure:"host"`
		// Port is the TCP port the server listens on. 0 means auto-select.
		Port types.ListenPort `json:"port" mapstructure:"port"`
		// ExtraArgs are appended verbatim to the server command line.
		ExtraArgs []string `json:"extra_args" mapstructure:"extra_args"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// BasePath is the managed installation root. Empty until an install
		// (or migration) records one.
		BasePath BasePath `json:"base_path" mapstructure:"base_path"`
		// InstallState records how far installation got.
		InstallState InstallState `json:"install_state" mapstructure:"install_state"`
		// Device is the accelerator the studio was installed for.
		Device DeviceSelection `json:"device" mapstructure:"device"`
		// MigrationSource is the root of a previous installation to migrate
		// user data from. Empty when no migration is pending.
		MigrationSource BasePath `json:"migration_source" mapstructure:"migration_source"`
		// Launch configures the studio server process.
		Launch LaunchConfig `json:"launch" mapstructure:"launch"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// Installation is the point-in-time view of the managed installation that
	// validation passes consume. It goes stale as soon as a repair action
	// rewrites configuration; derive a fresh one after every mutation.
	Installation struct {
		// BasePath is the installation root being validated.
		BasePath types.FilesystemPath
		// Device is the recorded accelerator selection.
		Device DeviceSelection
		// InstallState is the recorded installation progress.
		InstallState InstallState
	}
)

// Installation derives the validation view from the persisted record.
func (c *Config) Installation() Installation {
	return Installation{
		BasePath:     types.FilesystemPath(c.BasePath),
		Device:       c.Device,
		InstallState: c.InstallState,
	}
}

// Recorded reports whether an installation root has been recorded at all.
// An empty base path means there is nothing to validate yet.
func (i Installation) Recorded() bool {
	return strings.TrimSpace(i.BasePath.String()) != ""
}

// IsValid returns whether the Config has valid fields.
// It delegates to BasePath.IsValid(), InstallState.IsValid(), Device.IsValid(),
// MigrationSource.IsValid(), Launch.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.BasePath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.InstallState.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Device.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.MigrationSource.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Launch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the LaunchConfig has valid fields.
// It delegates to Host.IsValid() and Port.Validate(); ExtraArgs carries
// arbitrary strings and needs no validation.
func (c LaunchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Host.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLaunchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLaunchConfigError.
func (e *InvalidLaunchConfigError) Error() string {
	return fmt.Sprintf("invalid launch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLaunchConfig for errors.Is() compatibility.
func (e *InvalidLaunchConfigError) Unwrap() error { return ErrInvalidLaunchConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// String returns the string representation of the BasePath.
func (p BasePath) String() string { return string(p) }

// IsValid returns whether the BasePath is valid.
// The zero value ("") is valid (means "not recorded").
// Non-zero values must not be whitespace-only.
func (p BasePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBasePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBasePathError.
func (e *InvalidBasePathError) Error() string {
	return fmt.Sprintf("invalid base path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBasePath for errors.Is() compatibility.
func (e *InvalidBasePathError) Unwrap() error { return ErrInvalidBasePath }

// String returns the string representation of the ListenHost.
func (h ListenHost) String() string { return string(h) }

// IsValid returns whether the ListenHost is valid.
// A valid host must be non-empty and not whitespace-only.
func (h ListenHost) IsValid() (bool, []error) {
	if strings.TrimSpace(string(h)) == "" {
		return false, []error{&InvalidListenHostError{Value: h}}
	}
	return true, nil
}

// Error implements the error interface for InvalidListenHostError.
func (e *InvalidListenHostError) Error() string {
	return fmt.Sprintf("invalid listen host %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidListenHost for errors.Is() compatibility.
func (e *InvalidListenHostError) Unwrap() error { return ErrInvalidListenHost }

// Error implements the error interface for InvalidInstallStateError.
func (e *InvalidInstallStateError) Error() string {
	return fmt.Sprintf("invalid install state %q (valid: \"\", started, installed, upgraded)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidInstallStateError) Unwrap() error {
	return ErrInvalidInstallState
}

// String returns the string representation of the InstallState.
func (s InstallState) String() string { return string(s) }

// IsValid returns whether the InstallState is one of the defined states,
// and a list of validation errors if it is not.
func (s InstallState) IsValid() (bool, []error) {
	switch s {
	case InstallStateNone, InstallStateStarted, InstallStateInstalled, InstallStateUpgraded:
		return true, nil
	default:
		return false, []error{&InvalidInstallStateError{Value: s}}
	}
}

// Error implements the error interface for InvalidDeviceSelectionError.
func (e *InvalidDeviceSelectionError) Error() string {
	return fmt.Sprintf("invalid device selection %q (valid: \"\", nvidia, mps, cpu)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDeviceSelectionError) Unwrap() error {
	return ErrInvalidDeviceSelection
}

// String returns the string representation of the DeviceSelection.
func (d DeviceSelection) String() string { return string(d) }

// IsValid returns whether the DeviceSelection is one of the defined devices,
// and a list of validation errors if it is not.
func (d DeviceSelection) IsValid() (bool, []error) {
	switch d {
	case DeviceAuto, DeviceNvidia, DeviceMPS, DeviceCPU:
		return true, nil
	default:
		return false, []error{&InvalidDeviceSelectionError{Value: d}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BasePath:        "", // Recorded by install or migration
		InstallState:    InstallStateNone,
		Device:          DeviceAuto,
		MigrationSource: "",
		Launch: LaunchConfig{
			Host:      "127.0.0.1",
			Port:      8600,
			ExtraArgs: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
