// Package ui holds the interactive front-ends: the REPL (a Bubble Tea program
// or a plain line loop) and the batch progress view.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/diagfmt"
	"lambda/internal/driver"
	"lambda/internal/eval"
)

// DefaultPrompt is shown before every REPL line.
const DefaultPrompt = "λ> "

// maxShownSteps caps the reduction listing of :steps.
const maxShownSteps = 200

const helpText = `enter a lambda expression to reduce it to normal form
  :tokens <e>  show the token stream of <e>
  :tree <e>    show the syntax tree of <e>
  :steps <e>   show every reduction step of <e>
  :help        show this help
  :q           quit`

// Reply is the outcome of one REPL line.
type Reply struct {
	Text string
	Err  bool
	Quit bool
}

// Session evaluates REPL lines. It keeps no state between lines; every line
// is an independent expression.
type Session struct {
	Opts driver.Options
}

// Exec runs one line: either a colon command or an expression.
func (s *Session) Exec(ctx context.Context, line string) Reply {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reply{}
	}
	if !strings.HasPrefix(line, ":") {
		return s.evaluate(ctx, line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":q", ":quit":
		return Reply{Quit: true}
	case ":help", ":h":
		return Reply{Text: helpText}
	case ":tokens":
		return s.tokens(arg)
	case ":tree":
		return s.tree(ctx, arg)
	case ":steps":
		return s.steps(ctx, arg)
	default:
		return Reply{Text: fmt.Sprintf("unknown command %s (try :help)", cmd), Err: true}
	}
}

func (s *Session) evaluate(ctx context.Context, src string) Reply {
	res := driver.EvaluateSource(ctx, "<repl>", src, s.Opts)
	if res.Err != nil {
		return Reply{Text: shortDiagnostics(res.Bag, res), Err: true}
	}
	text := res.Text
	if res.Bag.HasWarnings() {
		text += "\n" + shortDiagnostics(res.Bag, res)
	}
	return Reply{Text: text}
}

func (s *Session) tokens(src string) Reply {
	if src == "" {
		return Reply{Text: "usage: :tokens <expr>", Err: true}
	}
	res := driver.TokenizeSource("<repl>", src, s.Opts.MaxDiagnostics)
	var b strings.Builder
	if err := diagfmt.FormatTokensPretty(&b, res.Tokens, res.FileSet); err != nil {
		return Reply{Text: err.Error(), Err: true}
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (s *Session) tree(ctx context.Context, src string) Reply {
	if src == "" {
		return Reply{Text: "usage: :tree <expr>", Err: true}
	}
	res := driver.ParseSource(ctx, "<repl>", src, s.Opts)
	if res.Err != nil {
		return Reply{Text: strings.TrimRight(diag.FormatShort(res.Bag.Items(), res.FileSet, false), "\n"), Err: true}
	}
	var b strings.Builder
	if err := diagfmt.FormatTree(&b, res.Expr, res.FileSet); err != nil {
		return Reply{Text: err.Error(), Err: true}
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (s *Session) steps(ctx context.Context, src string) Reply {
	if src == "" {
		return Reply{Text: "usage: :steps <expr>", Err: true}
	}
	pr := driver.ParseSource(ctx, "<repl>", src, s.Opts)
	if pr.Err != nil {
		return Reply{Text: strings.TrimRight(diag.FormatShort(pr.Bag.Items(), pr.FileSet, false), "\n"), Err: true}
	}
	if s.Opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Opts.Timeout)
		defer cancel()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s", 0, ast.Print(pr.Expr))
	truncated := false
	_, stats, err := eval.New(s.Opts.Eval).Reduce(ctx, pr.Expr, func(n int, term ast.Expr) bool {
		if n > maxShownSteps {
			truncated = true
			return false
		}
		fmt.Fprintf(&b, "\n%4d  %s", n, ast.Print(term))
		return true
	})
	switch {
	case err != nil:
		b.WriteString("\n" + evalFailure(err))
		return Reply{Text: b.String(), Err: true}
	case truncated:
		fmt.Fprintf(&b, "\n... stopped after %d steps", maxShownSteps)
	default:
		fmt.Fprintf(&b, "\n%d step(s)", stats.Steps)
	}
	return Reply{Text: b.String()}
}

func evalFailure(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "evaluation canceled"
	}
	return "error: " + err.Error()
}

func shortDiagnostics(bag *diag.Bag, res *driver.EvalResult) string {
	return strings.TrimRight(diag.FormatShort(bag.Items(), res.FileSet, false), "\n")
}
