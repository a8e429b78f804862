// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"CON", true},
		{"con", true},
		{"Nul", true},
		{"nul.txt", true},
		{"COM1", true},
		{"COM10", false},
		{"easel", false},
		{"console", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsWindowsReservedName(tt.name); got != tt.want {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestReservedPathComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"clean", `C:\Users\easel\Documents`, ""},
		{"reserved dir", `C:\Users\con\Documents`, "con"},
		{"reserved leaf", `C:\data\aux.dir`, "aux.dir"},
		{"unix clean", "/opt/easel", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReservedPathComponent(tt.path); got != tt.want {
				t.Errorf("ReservedPathComponent(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
