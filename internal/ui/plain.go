package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PlainOptions configures RunPlain.
type PlainOptions struct {
	Prompt string
	// ShowPrompt is false when input is not a terminal (pipes, tests).
	ShowPrompt bool
	Color      bool
}

// RunPlain reads lines from in until EOF or :q and writes replies to out.
// A failing line is reported and the loop continues.
func RunPlain(ctx context.Context, in io.Reader, out io.Writer, session *Session, opts PlainOptions) error {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	errColor := color.New(color.FgRed)
	resColor := color.New(color.FgGreen)
	if opts.Color {
		errColor.EnableColor()
		resColor.EnableColor()
	} else {
		errColor.DisableColor()
		resColor.DisableColor()
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for {
		if opts.ShowPrompt {
			fmt.Fprint(out, prompt)
		}
		if !sc.Scan() {
			if opts.ShowPrompt {
				fmt.Fprintln(out)
			}
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		reply := session.Exec(ctx, sc.Text())
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
