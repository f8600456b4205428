package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"lambda/internal/source"
)

// Cursor представляет собой позицию в файле: байтовое смещение плюс строка/колонка.
// Колонка растёт на один символ (руну) за шаг; '\n' переводит строку и сбрасывает колонку в 1.
type Cursor struct {
	File *source.File
	Off  uint32
	Pos  source.LineCol
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Pos:   source.LineCol{Line: 1, Col: 1},
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekRune декодирует текущий символ. Некорректный UTF-8 байт
// возвращается как utf8.RuneError размером 1.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// Bump перемещает курсор на один символ вперед и возвращает его
func (c *Cursor) Bump() rune {
	r, sz := c.PeekRune()
	if sz == 0 {
		return 0
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bump overflow: %w", err))
	}
	c.Off += usz
	if r == '\n' {
		c.Pos.Line++
		c.Pos.Col = 1
	} else {
		c.Pos.Col++
	}
	return r
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark struct {
	Off uint32
	Pos source.LineCol
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Pos: c.Pos}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: m.Off,
		End:   c.Off,
	}
}
