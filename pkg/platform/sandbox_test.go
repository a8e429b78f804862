// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"reflect"
	"testing"
)

func TestHostCommandPrefixFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   SandboxType
		want []string
	}{
		{"none", SandboxNone, nil},
		{"flatpak", SandboxFlatpak, []string{"flatpak-spawn", "--host"}},
		{"snap", SandboxSnap, []string{"snap", "run", "--shell"}},
		{"unknown", SandboxType("bubblewrap"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HostCommandPrefixFor(tt.st); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HostCommandPrefixFor(%q) = %v, want %v", tt.st, got, tt.want)
			}
		})
	}
}

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	notFound := errors.New("not found")

	tests := []struct {
		name    string
		env     map[string]string
		flatpak bool
		want    SandboxType
	}{
		{"no sandbox", nil, false, SandboxNone},
		{"flatpak", nil, true, SandboxFlatpak},
		{"snap", map[string]string{"SNAP_NAME": "easelboot"}, false, SandboxSnap},
		{"flatpak wins over snap", map[string]string{"SNAP_NAME": "easelboot"}, true, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lookupEnv := func(key string) string { return tt.env[key] }
			stat := func(path string) error {
				if tt.flatpak && path == "/.flatpak-info" {
					return nil
				}
				return notFound
			}
			if got := detectSandboxFrom(lookupEnv, stat); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}
