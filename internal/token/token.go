package token

import (
	"fmt"

	"lambda/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span    // байтовый диапазон в файле
	Pos  source.LineCol // строка/колонка первого символа
	Text string
}

// IsPunct reports whether the token is one of the fixed punctuation tokens.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Lambda, Dot, ParenLeft, ParenRight:
		return true
	default:
		return false
	}
}

// IsName reports whether the token is a name.
func (t Token) IsName() bool { return t.Kind == Name }

// IsEOF reports whether the token is the end-of-stream sentinel.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// String renders the token for diagnostics, e.g. NAME("x")@1:2 or EOF@1:5.
func (t Token) String() string {
	if t.Kind == Name {
		return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Pos.Line, t.Pos.Col)
	}
	return fmt.Sprintf("%s@%d:%d", t.Kind, t.Pos.Line, t.Pos.Col)
}
