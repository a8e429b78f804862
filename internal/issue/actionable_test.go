// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("export snapshot").
		WithResource("/tmp/easel-snapshot-1.json").
		Wrap(cause).
		Build()

	got := err.Error()
	want := "failed to export snapshot: /tmp/easel-snapshot-1.json: permission denied"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := WrapWithOperation(cause, "start server")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Run 'easelboot config init'").
		WithSuggestion("Check the file permissions").
		Wrap(errors.New("unexpected token")).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "• Run 'easelboot config init'") {
		t.Errorf("Format(false) missing suggestion bullet:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the error chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) should include the error chain:\n%s", verbose)
	}
	if !strings.Contains(verbose, "1. unexpected token") {
		t.Errorf("Format(true) should enumerate causes:\n%s", verbose)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %+v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapWithContext_NilError(t *testing.T) {
	t.Parallel()

	if got := WrapWithContext(nil, "op", "res"); got != nil {
		t.Errorf("WrapWithContext(nil, ...) = %+v, want nil", got)
	}
}
