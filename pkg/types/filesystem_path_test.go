// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path FilesystemPath
		want bool
	}{
		{"absolute", "/opt/easel", true},
		{"relative", "extensions/easel-manager", true},
		{"windows", `C:\Users\easel\Documents\Easel`, true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"tab only", "\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.path.IsValid()
			if isValid != tt.want {
				t.Errorf("FilesystemPath(%q).IsValid() = %v, want %v", tt.path, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatalf("FilesystemPath(%q).IsValid() returned no errors, want error", tt.path)
				}
				if !errors.Is(errs[0], ErrInvalidFilesystemPath) {
					t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("FilesystemPath(%q).IsValid() returned unexpected errors: %v", tt.path, errs)
			}
		})
	}
}

func TestFilesystemPath_String(t *testing.T) {
	t.Parallel()

	p := FilesystemPath("/opt/easel")
	if p.String() != "/opt/easel" {
		t.Errorf("String() = %q, want %q", p.String(), "/opt/easel")
	}
}
