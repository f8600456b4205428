// Package lexer turns lambda calculus source into a lazy stream of tokens.
//
// The lexer is total: every byte sequence tokenizes. The four reserved
// characters `\ . ( )` map to punctuation, whitespace separates tokens, and
// everything else belongs to a name.
package lexer

import (
	"iter"
	"unicode"

	"lambda/internal/source"
	"lambda/internal/token"
)

// Lexer hands out the tokens of one file on demand, with one token of lookahead.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
	done   bool         // EOF уже отдан
}

// New returns a Lexer positioned at the start of file.
func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next возвращает следующий токен.
// Поток не перезапускается: EOF отдаётся ровно один раз, после него Next
// всегда возвращает (token.Token{}, false).
func (lx *Lexer) Next() (token.Token, bool) {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok, true
	}
	if lx.done {
		return token.Token{}, false
	}

	lx.skipWhitespace()

	if lx.cursor.EOF() {
		lx.done = true
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Pos:  lx.cursor.Pos,
		}, true
	}

	start := lx.cursor.Mark()
	r, _ := lx.cursor.PeekRune()
	if kind, ok := token.PunctKind(r); ok {
		lx.cursor.Bump()
		return lx.emit(kind, start), true
	}
	return lx.scanName(start), true
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() (token.Token, bool) {
	if lx.look != nil {
		return *lx.look, true
	}
	t, ok := lx.Next()
	if !ok {
		return t, false
	}
	lx.look = &t
	return t, true
}

// All exposes the remaining stream as an iterator ending with EOF.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok, ok := lx.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// EmptySpan returns an empty span at the current cursor offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}

// File returns the file being tokenized.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// scanName съедает максимальную последовательность символов, которые
// не являются ни зарезервированной пунктуацией, ни пробелом.
func (lx *Lexer) scanName(start Mark) token.Token {
	for !lx.cursor.EOF() {
		r, _ := lx.cursor.PeekRune()
		if !isNameRune(r) {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Name, start)
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Pos:  start.Pos,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() {
		r, _ := lx.cursor.PeekRune()
		if !unicode.IsSpace(r) {
			return
		}
		lx.cursor.Bump()
	}
}

// isNameRune: всё, что не пробел и не одна из четырёх зарезервированных.
// utf8.RuneError (битый байт) тоже попадает в имя.
func isNameRune(r rune) bool {
	return !unicode.IsSpace(r) && !token.IsReserved(r)
}

// Tokenize drains a fresh lexer over file. The result always ends with exactly one EOF.
func Tokenize(file *source.File) []token.Token {
	lx := New(file)
	tokens := make([]token.Token, 0, len(file.Content)/2+1)
	for tok := range lx.All() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// TokenizeString tokenizes src as a standalone virtual file.
func TokenizeString(src string) []token.Token {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(src))
	return Tokenize(fs.Get(id))
}
