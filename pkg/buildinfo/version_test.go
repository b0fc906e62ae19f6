package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "v1.2.3", "abc123"

	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version: v1.2.3\n") || !strings.Contains(got, "commit: abc123") {
		t.Errorf("Template() = %q", got)
	}
	if Current().Version != "v1.2.3" {
		t.Errorf("Current().Version = %q", Current().Version)
	}
}
