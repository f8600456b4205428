package ast_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"lambda/internal/ast"
)

var (
	n   = func(s string) ast.Expr { return ast.NewName(s) }
	fn  = func(p string, b ast.Expr) ast.Expr { return ast.NewFunction(p, b) }
	app = func(f, a ast.Expr) ast.Expr { return ast.NewApplication(f, a) }
)

func TestPrint(t *testing.T) {
	tests := []struct {
		expr ast.Expr
		want string
	}{
		{n("x"), "x"},
		{fn("x", n("x")), `\x.x`},
		{app(n("x"), n("y")), "(x y)"},
		{app(fn("x", n("x")), n("y")), `(\x.x y)`},
		{fn("x", fn("y", app(n("y"), n("x")))), `\x.\y.(y x)`},
		{app(app(n("a"), n("b")), app(n("c"), n("d"))), "((a b) (c d))"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			var buf bytes.Buffer
			if err := ast.Write(&buf, tt.expr); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintDeepTree(t *testing.T) {
	const depth = 200_000
	var e ast.Expr = n("x")
	for range depth {
		e = fn("x", e)
	}
	out := ast.Print(e)
	if !strings.HasSuffix(out, ".x") || strings.Count(out, `\`) != depth {
		t.Fatalf("unexpected rendering of deep tree (len %d)", len(out))
	}
	if ast.Depth(e) != depth+1 {
		t.Fatalf("Depth = %d", ast.Depth(e))
	}
}

func TestEqual(t *testing.T) {
	a := app(fn("x", n("x")), n("y"))
	b := app(fn("x", n("x")), n("y"))
	if !ast.Equal(a, b) {
		t.Fatal("identical trees must be equal")
	}
	if ast.Equal(a, app(fn("z", n("z")), n("y"))) {
		t.Fatal("Equal must not identify alpha-variants")
	}
	if ast.Equal(n("x"), fn("x", n("x"))) {
		t.Fatal("different kinds must differ")
	}

	withSpan := &ast.Name{Ident: "y"}
	withSpan.Span.End = 10
	if !ast.Equal(withSpan, n("y")) {
		t.Fatal("spans must be ignored")
	}
}

func TestAlphaEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ast.Expr
		want bool
	}{
		{"identity", fn("x", n("x")), fn("y", n("y")), true},
		{"free names differ", n("x"), n("y"), false},
		{"free vs bound", fn("x", n("y")), fn("y", n("y")), false},
		{"K combinator", fn("x", fn("y", n("x"))), fn("a", fn("b", n("a"))), true},
		{"K vs K*", fn("x", fn("y", n("x"))), fn("a", fn("b", n("b"))), false},
		{"shadowing", fn("x", fn("x", n("x"))), fn("a", fn("b", n("b"))), true},
		{"applications", app(fn("x", n("x")), n("z")), app(fn("q", n("q")), n("z")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.AlphaEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("AlphaEqual(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := app(fn("x", n("x")), n("y"))
	c := ast.Clone(orig)
	if !ast.Equal(orig, c) {
		t.Fatal("clone must be equal")
	}
	c.(*ast.Application).Arg.(*ast.Name).Ident = "changed"
	if orig.(*ast.Application).Arg.(*ast.Name).Ident != "y" {
		t.Fatal("clone shares nodes with the original")
	}
}

func TestFreeVars(t *testing.T) {
	e := app(fn("x", app(n("x"), n("y"))), fn("z", app(n("z"), n("x"))))
	free := ast.FreeVars(e)
	got := make([]string, 0, len(free))
	for k := range free {
		got = append(got, k)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"x", "y"}) {
		t.Fatalf("FreeVars = %v", got)
	}

	if !ast.OccursFree(e, "y") || ast.OccursFree(e, "z") || !ast.OccursFree(e, "x") {
		t.Fatal("OccursFree mismatch")
	}
	if ast.OccursFree(fn("x", fn("y", n("x"))), "x") {
		t.Fatal("bound x must not occur free")
	}
}

func TestSizeAndWalkOrder(t *testing.T) {
	e := app(fn("x", n("x")), n("y"))
	if ast.Size(e) != 4 {
		t.Fatalf("Size = %d", ast.Size(e))
	}
	var kinds []string
	ast.Walk(e, func(n ast.Expr) bool {
		kinds = append(kinds, n.Kind().String())
		return true
	})
	want := []string{"Application", "Function", "Name", "Name"}
	if !slices.Equal(kinds, want) {
		t.Fatalf("walk order = %v, want %v", kinds, want)
	}
}

func TestRedexAndNormal(t *testing.T) {
	redex := app(fn("x", n("x")), n("y"))
	if !ast.IsRedex(redex) || ast.IsNormal(redex) {
		t.Fatal("expected redex")
	}
	nested := fn("z", app(n("z"), redex))
	if ast.IsRedex(nested) || ast.IsNormal(nested) {
		t.Fatal("nested redex must make the term non-normal")
	}
	if !ast.IsNormal(app(n("x"), fn("y", n("y")))) {
		t.Fatal("stuck application is normal")
	}
}

func TestNamesIncludesBinders(t *testing.T) {
	names := ast.Names(fn("x", app(n("y"), fn("z", n("z")))))
	for _, want := range []string{"x", "y", "z"} {
		if _, ok := names[want]; !ok {
			t.Fatalf("Names missing %q: %v", want, names)
		}
	}
	if len(names) != 3 {
		t.Fatalf("Names = %v", names)
	}
}

func TestRebuildReplacesLeaves(t *testing.T) {
	e := fn("x", app(n("x"), n("y")))
	got := ast.Rebuild(e, func(nm *ast.Name) ast.Expr {
		return ast.NewName(strings.ToUpper(nm.Ident))
	})
	if ast.Print(got) != `\x.(X Y)` {
		t.Fatalf("Rebuild = %s", got)
	}
	if ast.Print(e) != `\x.(x y)` {
		t.Fatal("Rebuild mutated its input")
	}
}

func TestFreeVarsDeepTree(t *testing.T) {
	var e ast.Expr = n("free")
	for range 200_000 {
		e = fn("x", e)
	}
	if !ast.OccursFree(e, "free") || ast.OccursFree(e, "x") {
		t.Fatal("OccursFree on deep tree")
	}
	if c := ast.Clone(e); ast.Depth(c) != 200_001 {
		t.Fatalf("clone depth = %d", ast.Depth(c))
	}
}
