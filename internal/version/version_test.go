package version

import (
	"testing"

	"github.com/fatih/color"
)

func withNoColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestVersion_Default(t *testing.T) {
	withNoColor(t)
	if got := Version(); got != "0.1.0-dev" {
		t.Fatalf("Version() = %q", got)
	}
	if Plain() != "0.1.0-dev" {
		t.Fatalf("Plain() = %q", Plain())
	}
}

func TestLine(t *testing.T) {
	withNoColor(t)
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = origCommit, origDate })

	tests := []struct {
		commit, date string
		want         string
	}{
		{"", "", "coreasm 0.1.0-dev"},
		{"abc123def4567890", "", "coreasm 0.1.0-dev (abc123def456)"},
		{"abc", "2026-01-15", "coreasm 0.1.0-dev (abc, 2026-01-15)"},
		{"", "2026-01-15", "coreasm 0.1.0-dev (2026-01-15)"},
	}
	for _, tt := range tests {
		GitCommit, BuildDate = tt.commit, tt.date
		if got := Line(); got != tt.want {
			t.Fatalf("Line() with (%q, %q) = %q, want %q", tt.commit, tt.date, got, tt.want)
		}
	}
}
