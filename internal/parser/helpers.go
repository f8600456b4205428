package parser

import (
	"slices"

	"lambda/internal/diag"
	"lambda/internal/token"
)

// peek возвращает текущий токен; исчерпанный поток выглядит как EOF
// сразу после последнего съеденного токена.
func (p *Parser) peek() token.Token {
	if tok, ok := p.ts.Peek(); ok {
		return tok
	}
	return eofAfter(p.lastTok)
}

// advance - съедает следующий токен и запоминает его.
func (p *Parser) advance() token.Token {
	tok, ok := p.ts.Next()
	if !ok {
		return eofAfter(p.lastTok)
	}
	p.lastTok = tok
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// expect - ожидаем конкретный токен, иначе UnexpectedTokenError.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.at(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.unexpected(k)
}

// unexpected оформляет ошибку на текущем токене и репортит её.
func (p *Parser) unexpected(expected ...token.Kind) error {
	tok := p.peek()
	err := &UnexpectedTokenError{Token: tok, Expected: slices.Clone(expected)}
	p.report(diag.SynUnexpectedToken, tok, err.Error())
	return err
}

func (p *Parser) report(code diag.Code, tok token.Token, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	diag.ReportError(p.opts.Reporter, code, tok.Span, msg).Emit()
}
