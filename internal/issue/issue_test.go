// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestRegistryContainsAllIds(t *testing.T) {
	ids := []Id{
		ConfigLoadFailedId,
		BasePathMissingId,
		BasePathInsideAppId,
		GitNotFoundId,
		SystemLibraryMissingId,
		RuntimeIncompleteId,
		GpuUnavailableId,
		MigrationFailedId,
		ServerStartFailedId,
	}

	for _, id := range ids {
		if Get(id) == nil {
			t.Errorf("Get(%d) = nil, want registered issue", id)
		}
	}

	if len(Values()) != len(ids) {
		t.Errorf("Values() has %d issues, want %d", len(Values()), len(ids))
	}
}

func TestIssueIdsMatchRegistryKeys(t *testing.T) {
	for _, i := range Values() {
		if Get(i.Id()) != i {
			t.Errorf("issue %d not retrievable by its own id", i.Id())
		}
	}
}

func TestIssueMessagesNonEmpty(t *testing.T) {
	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty markdown message", i.Id())
		}
	}
}

func TestRenderAppendsLinks(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	var captured string
	render = func(in string, stylePath string) (string, error) {
		captured = in
		return in, nil
	}

	out, err := Get(GitNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out == "" {
		t.Fatal("Render() returned empty output")
	}
	if !strings.Contains(captured, "- <https://git-scm.com/downloads>") {
		t.Errorf("rendered markdown should list the external link as a bullet, got:\n%s", captured)
	}
	if !strings.Contains(captured, "\n\n## See also\n") {
		t.Errorf("rendered markdown should include a see-also heading on its own line, got:\n%s", captured)
	}
}

func TestRenderListsEachLinkOnOwnLine(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	var captured string
	render = func(in string, stylePath string) (string, error) {
		captured = in
		return in, nil
	}

	i := &Issue{
		id:       GitNotFoundId,
		mdMsg:    "# Something broke",
		docLinks: []HttpLink{"https://docs.example.com/a", "https://docs.example.com/b"},
		extLinks: []HttpLink{"https://vendor.example.com/fix"},
	}
	if _, err := i.Render("dark"); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := []string{
		"- <https://docs.example.com/a>",
		"- <https://docs.example.com/b>",
		"- <https://vendor.example.com/fix>",
	}
	lines := strings.Split(captured, "\n")
	for _, bullet := range want {
		found := false
		for _, line := range lines {
			if line == bullet {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("markdown is missing the line %q:\n%s", bullet, captured)
		}
	}
}
