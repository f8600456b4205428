package parser

import (
	"fmt"
	"strings"

	"lambda/internal/token"
)

// UnexpectedTokenError is returned when the stream does not match the grammar.
type UnexpectedTokenError struct {
	Token    token.Token
	Expected []token.Kind
}

func (e *UnexpectedTokenError) Error() string {
	got := e.Token.Kind.String()
	if e.Token.Kind == token.Name {
		got = fmt.Sprintf("%s %q", got, e.Token.Text)
	}
	msg := fmt.Sprintf("unexpected %s at %d:%d", got, e.Token.Pos.Line, e.Token.Pos.Col)
	switch len(e.Expected) {
	case 0:
		return msg
	case 1:
		return msg + ", expected " + e.Expected[0].String()
	default:
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		return msg + ", expected one of " + strings.Join(names, ", ")
	}
}

// NestingTooDeepError is returned when Options.MaxDepth is exceeded.
type NestingTooDeepError struct {
	Token    token.Token
	MaxDepth int
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("expression nested deeper than %d levels at %d:%d", e.MaxDepth, e.Token.Pos.Line, e.Token.Pos.Col)
}
