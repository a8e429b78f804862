// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/easelstudio/easelboot/pkg/types"
)

func TestLoadOptions_Validate_AllEmpty(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{}
	err := opts.Validate()
	if err != nil {
		t.Errorf("empty LoadOptions should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_AllValid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: "/tmp/config.cue",
		ConfigDirPath:  "/tmp/config",
	}
	err := opts.Validate()
	if err != nil {
		t.Errorf("LoadOptions with valid paths should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_InvalidConfigFilePath(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with whitespace-only ConfigFilePath should be invalid")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error, got %d", len(loadErr.FieldErrors))
	}
}

func TestLoadOptions_Validate_InvalidConfigDirPath(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigDirPath: types.FilesystemPath("\t"),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with whitespace-only ConfigDirPath should be invalid")
	}
}

func TestLoadOptions_Validate_MultipleInvalid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("  "),
		ConfigDirPath:  types.FilesystemPath("\t "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with two bad fields should be invalid")
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(loadErr.FieldErrors))
	}
}

func TestProvider_Load_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(" "),
	})
	if err == nil {
		t.Fatal("Load() should reject invalid options before touching the filesystem")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}
}
