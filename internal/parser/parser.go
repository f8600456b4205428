// Package parser builds an expression tree from a token stream.
//
// Grammar:
//
//	expr := NAME
//	      | LAMBDA NAME DOT expr
//	      | PAREN_LEFT expr expr PAREN_RIGHT
//
// The parser keeps one token of lookahead and never backtracks. The first
// unexpected token aborts the parse; no partial tree is returned.
package parser

import (
	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/lexer"
	"lambda/internal/source"
	"lambda/internal/token"
)

type Options struct {
	// Reporter, если задан, получает SYN-диагностику вместе с возвратом ошибки.
	Reporter diag.Reporter
	// MaxDepth ограничивает вложенность выражений; 0 - без ограничения.
	MaxDepth int
}

// Parser - состояние разбора одного выражения.
type Parser struct {
	ts      TokenSource
	opts    Options
	depth   int
	lastTok token.Token // последний съеденный токен, для синтетического EOF
}

// Parse reads exactly one expression followed by EOF from ts.
func Parse(ts TokenSource, opts Options) (ast.Expr, error) {
	p := Parser{ts: ts, opts: opts}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseTokens parses a pre-tokenized stream. A slice without a trailing EOF
// is treated as if EOF followed its last token.
func ParseTokens(tokens []token.Token, opts Options) (ast.Expr, error) {
	return Parse(NewSliceSource(tokens), opts)
}

// ParseFile tokenizes and parses a whole source file.
func ParseFile(file *source.File, opts Options) (ast.Expr, error) {
	return Parse(lexer.New(file), opts)
}

// ParseString parses src as a standalone virtual file.
func ParseString(src string, opts Options) (ast.Expr, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(src))
	return ParseFile(fs.Get(id), opts)
}
