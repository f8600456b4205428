package ast

import (
	"io"
	"strings"
)

// Print renders e in the surface syntax: a name as its text, a function as
// `\n.body` and an application as `(f a)`, always parenthesized.
func Print(e Expr) string {
	var b strings.Builder
	_ = Write(&b, e) // strings.Builder never fails
	return b.String()
}

// printItem - либо узел, либо готовый кусок текста.
type printItem struct {
	expr Expr
	text string
}

// Write streams the rendering of e to w.
// Uses an explicit stack, so very deep trees do not grow the goroutine stack.
func Write(w io.Writer, e Expr) error {
	sw, ok := w.(io.StringWriter)
	if !ok {
		sw = stringWriter{w}
	}
	stack := []printItem{{expr: e}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.expr == nil {
			if _, err := sw.WriteString(it.text); err != nil {
				return err
			}
			continue
		}
		switch n := it.expr.(type) {
		case *Name:
			if _, err := sw.WriteString(n.Ident); err != nil {
				return err
			}
		case *Function:
			// в обратном порядке: стек
			stack = append(stack, printItem{expr: n.Body}, printItem{text: `\` + n.Param + "."})
		case *Application:
			stack = append(stack,
				printItem{text: ")"},
				printItem{expr: n.Arg},
				printItem{text: " "},
				printItem{expr: n.Func},
				printItem{text: "("},
			)
		}
	}
	return nil
}

type stringWriter struct{ w io.Writer }

func (s stringWriter) WriteString(str string) (int, error) {
	return s.w.Write([]byte(str))
}
