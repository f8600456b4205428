package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/lexer"
	"lambda/internal/parser"
	"lambda/internal/source"
	"lambda/internal/testkit"
	"lambda/internal/token"
)

func parseSource(t *testing.T, src string, opts parser.Options) (ast.Expr, *source.File, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lc", []byte(src))
	file := fs.Get(id)
	expr, err := parser.Parse(lexer.New(file), opts)
	return expr, file, err
}

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, file, err := parseSource(t, src, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := testkit.CheckTreeInvariants(expr, file); err != nil {
		t.Fatalf("tree invariants for %q: %v", src, err)
	}
	return expr
}

func expectUnexpected(t *testing.T, src string) *parser.UnexpectedTokenError {
	t.Helper()
	_, _, err := parseSource(t, src, parser.Options{})
	if err == nil {
		t.Fatalf("expected error for %q", src)
	}
	var ute *parser.UnexpectedTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("expected *UnexpectedTokenError for %q, got %T: %v", src, err, err)
	}
	return ute
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{"x", ast.NewName("x")},
		{`\x.x`, ast.NewFunction("x", ast.NewName("x"))},
		{`\x.\y.x`, ast.NewFunction("x", ast.NewFunction("y", ast.NewName("x")))},
		{"(f x)", ast.NewApplication(ast.NewName("f"), ast.NewName("x"))},
		{
			`((\x.\y.x one) two)`,
			ast.NewApplication(
				ast.NewApplication(
					ast.NewFunction("x", ast.NewFunction("y", ast.NewName("x"))),
					ast.NewName("one"),
				),
				ast.NewName("two"),
			),
		},
		{"  (\tf\n  x )  ", ast.NewApplication(ast.NewName("f"), ast.NewName("x"))},
		{`λ`, ast.NewName("λ")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := mustParse(t, tt.src)
			if !ast.Equal(got, tt.want) {
				t.Fatalf("parse %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	expr := mustParse(t, `(\x.x y)`)
	app, ok := expr.(*ast.Application)
	if !ok {
		t.Fatalf("expected application, got %T", expr)
	}
	if app.Span.Start != 0 || app.Span.End != 8 {
		t.Fatalf("application span = %v", app.Span)
	}
	fn := app.Func.(*ast.Function)
	if fn.Span.Start != 1 || fn.Span.End != 5 {
		t.Fatalf("function span = %v", fn.Span)
	}
	if fn.ParamSpan.Start != 2 || fn.ParamSpan.End != 3 {
		t.Fatalf("param span = %v", fn.ParamSpan)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     token.Kind
		line     uint32
		col      uint32
		expected []token.Kind
		msg      string
	}{
		{
			name:     "unfinished application",
			src:      "(x y",
			kind:     token.EOF,
			line:     1,
			col:      5,
			expected: []token.Kind{token.ParenRight},
			msg:      "unexpected EOF at 1:5, expected PAREN_RIGHT",
		},
		{
			name:     "empty input",
			src:      "",
			kind:     token.EOF,
			line:     1,
			col:      1,
			expected: []token.Kind{token.Lambda, token.Name, token.ParenLeft},
			msg:      "unexpected EOF at 1:1, expected one of LAMBDA, NAME, PAREN_LEFT",
		},
		{
			name:     "missing dot",
			src:      `\x x`,
			kind:     token.Name,
			line:     1,
			col:      4,
			expected: []token.Kind{token.Dot},
			msg:      `unexpected NAME "x" at 1:4, expected DOT`,
		},
		{
			name:     "missing parameter",
			src:      `\.x`,
			kind:     token.Dot,
			line:     1,
			col:      2,
			expected: []token.Kind{token.Name},
		},
		{
			name:     "trailing token",
			src:      "x y",
			kind:     token.Name,
			line:     1,
			col:      3,
			expected: []token.Kind{token.EOF},
		},
		{
			name:     "single-element parens",
			src:      "(x)",
			kind:     token.ParenRight,
			line:     1,
			col:      3,
			expected: []token.Kind{token.Lambda, token.Name, token.ParenLeft},
		},
		{
			name:     "three elements",
			src:      "(f x y)",
			kind:     token.Name,
			line:     1,
			col:      6,
			expected: []token.Kind{token.ParenRight},
		},
		{
			name:     "stray closing paren",
			src:      ")",
			kind:     token.ParenRight,
			line:     1,
			col:      1,
			expected: []token.Kind{token.Lambda, token.Name, token.ParenLeft},
		},
		{
			name:     "error on second line",
			src:      "(f\n.",
			kind:     token.Dot,
			line:     2,
			col:      1,
			expected: []token.Kind{token.Lambda, token.Name, token.ParenLeft},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ute := expectUnexpected(t, tt.src)
			if ute.Token.Kind != tt.kind {
				t.Errorf("token kind = %s, want %s", ute.Token.Kind, tt.kind)
			}
			if ute.Token.Pos.Line != tt.line || ute.Token.Pos.Col != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", ute.Token.Pos.Line, ute.Token.Pos.Col, tt.line, tt.col)
			}
			if diff := cmp.Diff(tt.expected, ute.Expected); diff != "" {
				t.Errorf("expected kinds mismatch (-want +got):\n%s", diff)
			}
			if tt.msg != "" && ute.Error() != tt.msg {
				t.Errorf("message = %q, want %q", ute.Error(), tt.msg)
			}
		})
	}
}

func TestUnfinishedApplicationSpan(t *testing.T) {
	ute := expectUnexpected(t, "(x y")
	if ute.Token.Span.Start != 4 || !ute.Token.Span.Empty() {
		t.Fatalf("EOF span = %v, want empty span at 4", ute.Token.Span)
	}
}

func TestParseTokensWithoutEOF(t *testing.T) {
	tokens := lexer.TokenizeString("(a b")
	tokens = tokens[:len(tokens)-1]
	_, err := parser.ParseTokens(tokens, parser.Options{})
	var ute *parser.UnexpectedTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("expected *UnexpectedTokenError, got %v", err)
	}
	if ute.Token.Kind != token.EOF || ute.Token.Pos.Col != 5 {
		t.Fatalf("synthetic EOF = %v", ute.Token)
	}

	expr, err := parser.ParseTokens(lexer.TokenizeString("(a b)")[:4], parser.Options{})
	if err != nil {
		t.Fatalf("complete expression without EOF: %v", err)
	}
	if got := ast.Print(expr); got != "(a b)" {
		t.Fatalf("got %q", got)
	}

	_, err = parser.ParseTokens(nil, parser.Options{})
	if !errors.As(err, &ute) || ute.Token.Kind != token.EOF {
		t.Fatalf("empty slice: %v", err)
	}
}

func TestParseReportsDiagnostic(t *testing.T) {
	bag := diag.NewBag(8)
	_, _, err := parseSource(t, "(x y", parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynUnexpectedToken || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Message != err.Error() {
		t.Fatalf("diagnostic message %q differs from error %q", d.Message, err.Error())
	}
}

func TestMaxDepth(t *testing.T) {
	src := strings.Repeat(`\x.`, 10) + "x"
	if _, _, err := parseSource(t, src, parser.Options{MaxDepth: 11}); err != nil {
		t.Fatalf("depth 11 should fit: %v", err)
	}
	bag := diag.NewBag(4)
	_, _, err := parseSource(t, src, parser.Options{MaxDepth: 10, Reporter: diag.BagReporter{Bag: bag}})
	var deep *parser.NestingTooDeepError
	if !errors.As(err, &deep) {
		t.Fatalf("expected *NestingTooDeepError, got %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynNestingTooDeep {
		t.Fatalf("expected SYN2002 diagnostic, got %+v", bag.Items())
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"x",
		`\x.\y.(x y)`,
		`((\x.\y.x one) two)`,
		`(\f.(f f) \x.x)`,
		`\<a>.<a>`,
	}
	for _, src := range inputs {
		expr := mustParse(t, src)
		printed := ast.Print(expr)
		again := mustParse(t, printed)
		if !ast.Equal(expr, again) {
			t.Fatalf("round trip of %q changed the tree: %s vs %s", src, expr, again)
		}
	}
}

func TestParseString(t *testing.T) {
	expr, err := parser.ParseString(`(\x.x y)`, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if expr.Kind() != ast.ExprApplication {
		t.Fatalf("kind = %s", expr.Kind())
	}
}
