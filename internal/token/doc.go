// Package token defines the lexical tokens of the lambda calculus surface syntax.
// Invariants:
//   - Token.Text is the exact source slice for the token (no case folding or normalization).
//   - Token.Span matches Text exactly in bytes (Start..End); Token.Pos is the 1-based
//     line/column of the first character, columns counted in characters.
//   - EOF has empty Text and an empty Span positioned right after the last character.
//   - Whitespace is never represented as a token.
package token
