package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata; overridden at link time with
// -ldflags "-X coreasm/internal/version.GitCommit=...".
var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	Major  = "0"
	Minor  = "1"
	Patch  = "0"
	Suffix = "-dev"

	GitCommit = ""
	BuildDate = ""
)

// Version returns the colourised semantic version.
func Version() string {
	return majorColor.Sprint(Major) + "." + minorColor.Sprint(Minor) + "." + patchColor.Sprint(Patch) + Suffix
}

// Plain returns the version without colour codes.
func Plain() string {
	return Major + "." + Minor + "." + Patch + Suffix
}

// Line renders "coreasm <version> (<commit>, <date>)", omitting empty parts.
func Line() string {
	var meta []string
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		meta = append(meta, commit)
	}
	if BuildDate != "" {
		meta = append(meta, BuildDate)
	}
	out := "coreasm " + Version()
	if len(meta) > 0 {
		out += " (" + strings.Join(meta, ", ") + ")"
	}
	return out
}
