// Package version carries build metadata for the lambda CLI.
// The variables can be overridden at build time via -ldflags "-X ...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in their own colours.
// Pre-release suffixes stay uncoloured.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 || !enabled {
		return Version
	}
	palette := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	for i, c := range palette {
		c.EnableColor()
		parts[i] = c.Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Lines returns the version block printed by `lambda version`.
func Lines(enabled bool) []string {
	lines := []string{"lambda " + Colored(enabled)}
	if GitCommit != "" {
		lines = append(lines, "commit: "+GitCommit)
	}
	if GitMessage != "" {
		lines = append(lines, "message: "+GitMessage)
	}
	if BuildDate != "" {
		lines = append(lines, "built: "+BuildDate)
	}
	return lines
}
