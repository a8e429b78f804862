// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/easelstudio/easelboot/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.BasePath != "" {
		t.Errorf("expected default base path to be empty, got %q", cfg.BasePath)
	}

	if cfg.InstallState != InstallStateNone {
		t.Errorf("expected default install state to be empty, got %q", cfg.InstallState)
	}

	if cfg.Device != DeviceAuto {
		t.Errorf("expected default device to be empty, got %q", cfg.Device)
	}

	if cfg.MigrationSource != "" {
		t.Errorf("expected default migration source to be empty, got %q", cfg.MigrationSource)
	}

	if cfg.Launch.Host != "127.0.0.1" {
		t.Errorf("expected default launch host to be 127.0.0.1, got %q", cfg.Launch.Host)
	}

	if cfg.Launch.Port != 8600 {
		t.Errorf("expected default launch port to be 8600, got %d", cfg.Launch.Port)
	}

	if len(cfg.Launch.ExtraArgs) != 0 {
		t.Errorf("expected default extra args to be empty, got %v", cfg.Launch.ExtraArgs)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %q", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got errors: %v", errs)
	}
}

func TestInstallState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state InstallState
		valid bool
	}{
		{InstallStateNone, true},
		{InstallStateStarted, true},
		{InstallStateInstalled, true},
		{InstallStateUpgraded, true},
		{InstallState("finished"), false},
		{InstallState("INSTALLED"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.state.IsValid()
			if valid != tt.valid {
				t.Errorf("InstallState(%q).IsValid() = %v, want %v", tt.state, valid, tt.valid)
			}
			if !tt.valid {
				if len(errs) != 1 {
					t.Fatalf("expected 1 error, got %d", len(errs))
				}
				if !errors.Is(errs[0], ErrInvalidInstallState) {
					t.Errorf("error should wrap ErrInvalidInstallState, got: %v", errs[0])
				}
			}
		})
	}
}

func TestDeviceSelection_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		device DeviceSelection
		valid  bool
	}{
		{DeviceAuto, true},
		{DeviceNvidia, true},
		{DeviceMPS, true},
		{DeviceCPU, true},
		{DeviceSelection("cuda"), false},
		{DeviceSelection("NVIDIA"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.device), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.device.IsValid()
			if valid != tt.valid {
				t.Errorf("DeviceSelection(%q).IsValid() = %v, want %v", tt.device, valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidDeviceSelection) {
				t.Errorf("error should wrap ErrInvalidDeviceSelection, got: %v", errs[0])
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme ColorScheme
		valid  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{ColorScheme(""), false},
		{ColorScheme("solarized"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.scheme.IsValid()
			if valid != tt.valid {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidColorScheme) {
				t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
			}
		})
	}
}

func TestBasePath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  BasePath
		valid bool
	}{
		{"empty means not recorded", "", true},
		{"absolute path", "/home/user/easel", true},
		{"whitespace only", "   ", false},
		{"tab only", "\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.path.IsValid()
			if valid != tt.valid {
				t.Errorf("BasePath(%q).IsValid() = %v, want %v", tt.path, valid, tt.valid)
			}
			if !tt.valid {
				if !errors.Is(errs[0], ErrInvalidBasePath) {
					t.Errorf("error should wrap ErrInvalidBasePath, got: %v", errs[0])
				}
				var pathErr *InvalidBasePathError
				if !errors.As(errs[0], &pathErr) {
					t.Fatalf("error should be *InvalidBasePathError, got: %T", errs[0])
				}
				if pathErr.Value != tt.path {
					t.Errorf("error value = %q, want %q", pathErr.Value, tt.path)
				}
			}
		})
	}
}

func TestListenHost_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		host  ListenHost
		valid bool
	}{
		{"loopback", "127.0.0.1", true},
		{"all interfaces", "0.0.0.0", true},
		{"hostname", "localhost", true},
		{"empty", "", false},
		{"whitespace", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.host.IsValid()
			if valid != tt.valid {
				t.Errorf("ListenHost(%q).IsValid() = %v, want %v", tt.host, valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidListenHost) {
				t.Errorf("error should wrap ErrInvalidListenHost, got: %v", errs[0])
			}
		})
	}
}

func TestLaunchConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	launch := LaunchConfig{
		Host: "",
		Port: types.ListenPort(70000),
	}

	valid, errs := launch.IsValid()
	if valid {
		t.Fatal("launch config with empty host and out-of-range port should be invalid")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 aggregate error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidLaunchConfig) {
		t.Errorf("error should wrap ErrInvalidLaunchConfig, got: %v", errs[0])
	}

	var launchErr *InvalidLaunchConfigError
	if !errors.As(errs[0], &launchErr) {
		t.Fatalf("error should be *InvalidLaunchConfigError, got: %T", errs[0])
	}
	if len(launchErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(launchErr.FieldErrors))
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Device = DeviceSelection("tpu")
	cfg.Launch.Port = types.ListenPort(-1)

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("config with bad device and bad port should be invalid")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 aggregate error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got: %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors (device, launch), got %d", len(cfgErr.FieldErrors))
	}
}

func TestConfig_Installation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.BasePath = "/srv/easel"
	cfg.Device = DeviceNvidia
	cfg.InstallState = InstallStateInstalled

	inst := cfg.Installation()

	if inst.BasePath != types.FilesystemPath("/srv/easel") {
		t.Errorf("Installation.BasePath = %q, want /srv/easel", inst.BasePath)
	}
	if inst.Device != DeviceNvidia {
		t.Errorf("Installation.Device = %q, want nvidia", inst.Device)
	}
	if inst.InstallState != InstallStateInstalled {
		t.Errorf("Installation.InstallState = %q, want installed", inst.InstallState)
	}
	if !inst.Recorded() {
		t.Error("installation with a base path should report Recorded")
	}
}

func TestInstallation_Recorded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		basePath string
		want     bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"recorded", "/srv/easel", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inst := Installation{BasePath: types.FilesystemPath(tt.basePath)}
			if got := inst.Recorded(); got != tt.want {
				t.Errorf("Recorded() = %v, want %v", got, tt.want)
			}
		})
	}
}
