package parser

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"lambda/internal/source"
	"lambda/internal/token"
)

// TokenSource is a stream of tokens with one token of lookahead.
// *lexer.Lexer satisfies it.
type TokenSource interface {
	Next() (token.Token, bool)
	Peek() (token.Token, bool)
}

// SliceSource replays a fixed token slice.
type SliceSource struct {
	tokens []token.Token
	pos    int
}

func NewSliceSource(tokens []token.Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

func (s *SliceSource) Next() (token.Token, bool) {
	if s.pos >= len(s.tokens) {
		return token.Token{}, false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

func (s *SliceSource) Peek() (token.Token, bool) {
	if s.pos >= len(s.tokens) {
		return token.Token{}, false
	}
	return s.tokens[s.pos], true
}

// eofAfter строит EOF сразу за tok: пустой span в его конце и позицию
// после последнего символа текста (переводы строк в имени невозможны).
func eofAfter(tok token.Token) token.Token {
	pos := tok.Pos
	if pos.Line == 0 {
		pos = source.LineCol{Line: 1, Col: 1}
	} else {
		width, err := safecast.Conv[uint32](utf8.RuneCountInString(tok.Text))
		if err != nil {
			width = 0
		}
		pos.Col += width
	}
	return token.Token{
		Kind: token.EOF,
		Span: source.At(tok.Span.File, tok.Span.End),
		Pos:  pos,
	}
}
