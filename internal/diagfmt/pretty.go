package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lambda/internal/diag"
	"lambda/internal/source"
)

type palette struct {
	err, warn, info, note, code, path, caret, gutter *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgBlue, color.Bold),
		note:   mk(color.FgCyan),
		code:   mk(color.Bold),
		path:   mk(color.Bold),
		caret:  mk(color.FgGreen, color.Bold),
		gutter: mk(color.FgBlue),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

// PrettyDiagnostic renders a single diagnostic.
func PrettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	return prettyOne(w, d, fs, opts, newPalette(opts.Color))
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	if int(d.Primary.File) < fs.Len() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(&b, "%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message,
		)
		writeSnippet(&b, f, d.Primary, opts, pal)
	} else {
		fmt.Fprintf(&b, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if int(n.Span.File) >= fs.Len() {
				fmt.Fprintf(&b, "  %s: %s\n", pal.note.Sprint("note"), n.Msg)
				continue
			}
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(&b, "  %s: %s:%d:%d: %s\n", pal.note.Sprint("note"),
				formatPath(nf.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col, n.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSnippet печатает строку(и) исходника и каретку под span.
// Отступ каретки считается в колонках терминала (широкие символы - две).
func writeSnippet(b *strings.Builder, f *source.File, sp source.Span, opts PrettyOpts, pal palette) {
	start, end := f.Position(sp.Start), f.Position(sp.End)
	gutterWidth := len(fmt.Sprint(start.Line))

	first := uint32(1)
	if ctx := uint32(max(opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), clip(f.GetLine(ln), opts.Width))
	}

	line := f.GetLine(start.Line)
	fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, start.Line), clip(line, opts.Width))

	prefix := runePrefix(line, int(start.Col)-1)
	pad := runewidth.StringWidth(prefix)
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = runewidth.StringWidth(runePrefix(line, int(end.Col)-1)) - pad
	}
	marker := "^" + strings.Repeat("~", max(width-1, 0))
	fmt.Fprintf(b, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

// runePrefix returns the first n characters of s (or all of s).
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for idx := range s {
		if i == n {
			return s[:idx]
		}
		i++
	}
	return s
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
