package main

import (
	"io"
	"os"

	"lambda/internal/diag"
	"lambda/internal/diagfmt"
	"lambda/internal/observ"
	"lambda/internal/source"
)

// printDiagnostics renders bag to stderr in the configured style.
func printDiagnostics(bag *diag.Bag, fs *source.FileSet, format string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if format == "json" {
		return diagfmt.JSON(os.Stderr, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	}
	return diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(os.Stderr),
		Context:   1,
		ShowNotes: true,
	})
}

func printTimings(out io.Writer, name string, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if name != "" {
		_, _ = io.WriteString(out, name+" ")
	}
	_, _ = io.WriteString(out, timer.Summary())
}
