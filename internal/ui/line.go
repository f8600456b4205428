package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"lambda/internal/parser"
	"lambda/internal/token"
)

// ContinuationPrompt is shown while an expression spans several lines.
const ContinuationPrompt = "... "

// LineOptions configures RunLine.
type LineOptions struct {
	Prompt string
	// HistoryPath is read on start and rewritten on exit; empty disables history.
	HistoryPath string
	Color       bool
}

// RunLine is the terminal REPL without the full-screen UI: line editing and
// history come from liner. Ctrl-C drops the current input, Ctrl-D quits.
func RunLine(ctx context.Context, out io.Writer, session *Session, opts LineOptions) error {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	errColor := color.New(color.FgRed)
	resColor := color.New(color.FgGreen)
	if !opts.Color {
		errColor.DisableColor()
		resColor.DisableColor()
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.HistoryPath != "" {
		if f, err := os.Open(opts.HistoryPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		src, ok := readExpression(ln, prompt)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		reply := session.Exec(ctx, src)
		if reply.Quit {
			return nil
		}
		if reply.Text == "" {
			continue
		}
		c := resColor
		if reply.Err {
			c = errColor
		}
		if _, err := c.Fprintln(out, reply.Text); err != nil {
			return err
		}
	}
}

// readExpression keeps prompting while the input so far is an unfinished
// expression. ok is false on EOF.
func readExpression(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = ContinuationPrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !Incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// Incomplete reports whether src fails to parse only because input ended
// early, e.g. an unclosed parenthesis. Commands are never incomplete.
func Incomplete(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return false
	}
	_, err := parser.ParseString(src, parser.Options{})
	var ute *parser.UnexpectedTokenError
	return errors.As(err, &ute) && ute.Token.Kind == token.EOF
}
