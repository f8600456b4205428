package parser

import (
	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/token"
)

// exprStart - токены, с которых может начинаться выражение.
var exprStart = []token.Kind{token.Lambda, token.Name, token.ParenLeft}

func (p *Parser) parseExpr() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Kind {
	case token.Name:
		return p.parseName(), nil
	case token.Lambda:
		return p.parseFunction()
	case token.ParenLeft:
		return p.parseApplication()
	default:
		return nil, p.unexpected(exprStart...)
	}
}

func (p *Parser) parseName() *ast.Name {
	tok := p.advance()
	return &ast.Name{Ident: tok.Text, Span: tok.Span}
}

// parseFunction: LAMBDA NAME DOT expr
func (p *Parser) parseFunction() (*ast.Function, error) {
	lambdaTok := p.advance()
	param, err := p.expect(token.Name)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(token.Dot); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Param:     param.Text,
		ParamSpan: param.Span,
		Body:      body,
		Span:      lambdaTok.Span.Cover(ast.SpanOf(body)),
	}, nil
}

// parseApplication: PAREN_LEFT expr expr PAREN_RIGHT
func (p *Parser) parseApplication() (*ast.Application, error) {
	open := p.advance()
	fn, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(token.ParenRight)
	if err != nil {
		return nil, err
	}
	return &ast.Application{
		Func: fn,
		Arg:  arg,
		Span: open.Span.Cover(closeTok.Span),
	}, nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		tok := p.peek()
		err := &NestingTooDeepError{Token: tok, MaxDepth: p.opts.MaxDepth}
		p.report(diag.SynNestingTooDeep, tok, err.Error())
		return err
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }
