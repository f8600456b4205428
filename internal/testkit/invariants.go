// Package testkit holds invariant checkers shared by unit and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lambda/internal/ast"
	"lambda/internal/source"
	"lambda/internal/token"
)

// CheckTokenInvariants verifies a complete token stream:
// 1) exactly one EOF token and it is the last one
// 2) positions never go backwards
// 3) spans are ordered and non-overlapping
// 4) every non-EOF token has a non-empty span and text
func CheckTokenInvariants(tokens []token.Token) error {
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	last := tokens[len(tokens)-1]
	if !last.IsEOF() {
		return fmt.Errorf("stream does not end with EOF: %v", last)
	}
	for i, tok := range tokens[:len(tokens)-1] {
		if tok.IsEOF() {
			return fmt.Errorf("EOF at index %d before end of stream", i)
		}
		if tok.Span.Empty() {
			return fmt.Errorf("token %d has empty span: %v", i, tok)
		}
		if tok.Text == "" {
			return fmt.Errorf("token %d has empty text: %v", i, tok)
		}
		next := tokens[i+1]
		if next.Pos.Less(tok.Pos) {
			return fmt.Errorf("position goes backwards at %d: %v then %v", i, tok, next)
		}
		if next.Span.Start < tok.Span.End {
			return fmt.Errorf("spans overlap at %d: %v then %v", i, tok.Span, next.Span)
		}
	}
	if !last.Span.Empty() {
		return fmt.Errorf("EOF span is not empty: %v", last.Span)
	}
	return nil
}

// CheckTreeInvariants verifies spans of a parsed expression against its file:
// every node span lies within the content, and a parent span covers its children.
func CheckTreeInvariants(root ast.Expr, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil expression or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var walkErr error
	ast.Walk(root, func(e ast.Expr) bool {
		if walkErr != nil {
			return false
		}
		sp := ast.SpanOf(e)
		if sp.File != sf.ID {
			walkErr = fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
			return false
		}
		if sp.End > lenContent || sp.Start > sp.End {
			walkErr = fmt.Errorf("span %v outside content of length %d", sp, lenContent)
			return false
		}
		for _, child := range children(e) {
			csp := ast.SpanOf(child)
			if csp.Start < sp.Start || csp.End > sp.End {
				walkErr = fmt.Errorf("%s span %v not covered by parent %s span %v", child.Kind(), csp, e.Kind(), sp)
				return false
			}
		}
		return true
	})
	return walkErr
}

func children(e ast.Expr) []ast.Expr {
	switch n := e.(type) {
	case *ast.Function:
		return []ast.Expr{n.Body}
	case *ast.Application:
		return []ast.Expr{n.Func, n.Arg}
	}
	return nil
}
