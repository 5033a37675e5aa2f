package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if got := Current().Version; got != Version {
		t.Errorf("Current().Version = %q", got)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	out := Current().Pretty(false)
	for _, want := range []string{"deducels 1.2.3\n", "commit: abc123def456", "built:  2024-01-15T10:30:00Z", "go:     go"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.1.0", "0.1.0"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, false); got != tt.want {
			t.Errorf("Colored(%q) = %q", tt.in, got)
		}
	}
	if got := Colored("0.1.0-dev", true); !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-dev") {
		t.Errorf("colored = %q", got)
	}
}
