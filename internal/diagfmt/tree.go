package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"lambda/internal/ast"
	"lambda/internal/source"
)

// FormatTree writes an indented dump of expr, one node per line:
//
//	Application 1:1-1:9
//	  Function x 1:2-1:6
//	    Name x 1:5-1:6
//	  Name y 1:7-1:8
//
// Positions are omitted when fs is nil or the node has no source span.
func FormatTree(w io.Writer, expr ast.Expr, fs *source.FileSet) error {
	type item struct {
		expr  ast.Expr
		depth int
	}
	var b strings.Builder
	stack := []item{{expr: expr}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.WriteString(strings.Repeat("  ", it.depth))
		switch n := it.expr.(type) {
		case *ast.Name:
			fmt.Fprintf(&b, "Name %s", n.Ident)
		case *ast.Function:
			fmt.Fprintf(&b, "Function %s", n.Param)
			stack = append(stack, item{n.Body, it.depth + 1})
		case *ast.Application:
			b.WriteString("Application")
			stack = append(stack, item{n.Arg, it.depth + 1}, item{n.Func, it.depth + 1})
		default:
			b.WriteString("<nil>")
		}
		if pos := formatRange(ast.SpanOf(it.expr), fs); pos != "" {
			b.WriteString(" ")
			b.WriteString(pos)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatRange(sp source.Span, fs *source.FileSet) string {
	if fs == nil || sp.Empty() || int(sp.File) >= fs.Len() {
		return ""
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// ExprJSON is the JSON shape of an expression node.
type ExprJSON struct {
	Kind  string    `json:"kind"`
	Name  string    `json:"name,omitempty"`
	Param string    `json:"param,omitempty"`
	Body  *ExprJSON `json:"body,omitempty"`
	Func  *ExprJSON `json:"func,omitempty"`
	Arg   *ExprJSON `json:"arg,omitempty"`
}

// BuildExprJSON converts expr into its JSON shape without recursion.
func BuildExprJSON(expr ast.Expr) *ExprJSON {
	if expr == nil {
		return nil
	}
	root := &ExprJSON{}
	type item struct {
		expr ast.Expr
		out  *ExprJSON
	}
	stack := []item{{expr, root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		it.out.Kind = it.expr.Kind().String()
		switch n := it.expr.(type) {
		case *ast.Name:
			it.out.Name = n.Ident
		case *ast.Function:
			it.out.Param = n.Param
			it.out.Body = &ExprJSON{}
			stack = append(stack, item{n.Body, it.out.Body})
		case *ast.Application:
			it.out.Func, it.out.Arg = &ExprJSON{}, &ExprJSON{}
			stack = append(stack, item{n.Func, it.out.Func}, item{n.Arg, it.out.Arg})
		}
	}
	return root
}

// FormatTreeJSON writes expr as indented JSON.
func FormatTreeJSON(w io.Writer, expr ast.Expr) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildExprJSON(expr))
}
