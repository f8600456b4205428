package eval_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lambda/internal/ast"
	"lambda/internal/eval"
	"lambda/internal/parser"
	"lambda/internal/trace"
)

const omega = `(\x.(x x) \x.(x x))`

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseString(src, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func evalString(t *testing.T, src string, opts eval.Options) (string, eval.Stats) {
	t.Helper()
	out, stats, err := eval.New(opts).Run(context.Background(), mustParse(t, src))
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return ast.Print(out), stats
}

func TestEvalScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"name", "x", "x"},
		{"identity", `\x.x`, `\x.x`},
		{"beta", `(\x.x y)`, "y"},
		{"stuck free head", "(x y)", "(x y)"},
		{"nested application", `((\x.\y.x one) two)`, "one"},
		{"reduce under binder", `\z.(\x.x z)`, `\z.z`},
		{"stuck head normalizes argument", `(x (\y.y z))`, "(x z)"},
		{"head application fires after normalizing", `((\f.f \x.x) a)`, "a"},
		{"neutral head application", `((x \y.y) (\z.z w))`, `((x \y.y) w)`},
		{"argument substituted unevaluated", `(\x.y ` + omega + `)`, "y"},
		{"body of result", `(\x.\y.(y x) a)`, `\y.(y a)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := evalString(t, tt.src, eval.Options{})
			if got != tt.want {
				t.Fatalf("eval %q = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalCountsSteps(t *testing.T) {
	_, stats := evalString(t, `((\x.\y.x one) two)`, eval.Options{})
	if stats.Steps != 2 {
		t.Fatalf("steps = %d, want 2", stats.Steps)
	}
	if stats.MaxStack == 0 {
		t.Fatal("expected the continuation stack to be used")
	}
	_, stats = evalString(t, "(x y)", eval.Options{})
	if stats.Steps != 0 {
		t.Fatalf("stuck term performed %d steps", stats.Steps)
	}
}

func TestEvalDivergingHitsStepLimit(t *testing.T) {
	_, stats, err := eval.New(eval.Options{MaxSteps: 100}).Run(context.Background(), mustParse(t, omega))
	var limit *eval.StepLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected *StepLimitError, got %v", err)
	}
	if limit.Steps != 100 || stats.Steps != 100 {
		t.Fatalf("limit=%d steps=%d", limit.Steps, stats.Steps)
	}
	if err.Error() != "did not normalize within 100 steps" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestEvalExactStepBudget(t *testing.T) {
	// две редукции укладываются ровно в лимит 2
	out, err := eval.New(eval.Options{MaxSteps: 2}).Eval(context.Background(), mustParse(t, `((\x.\y.x one) two)`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.Print(out) != "one" {
		t.Fatalf("got %s", out)
	}
	_, err = eval.New(eval.Options{MaxSteps: 1}).Eval(context.Background(), mustParse(t, `((\x.\y.x one) two)`))
	if err == nil {
		t.Fatal("expected step limit error")
	}
}

func TestEvalDivergingHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := eval.New(eval.Options{}).Eval(ctx, mustParse(t, omega))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestEvalDoesNotMutateInput(t *testing.T) {
	expr := mustParse(t, `((\x.\y.(x y) \z.z) w)`)
	before := ast.Print(expr)
	if _, err := eval.New(eval.Options{}).Eval(context.Background(), expr); err != nil {
		t.Fatal(err)
	}
	if ast.Print(expr) != before {
		t.Fatalf("input changed: %s -> %s", before, ast.Print(expr))
	}
}

func TestEvalIsIdempotent(t *testing.T) {
	inputs := []string{
		`((\x.\y.x one) two)`,
		`\f.(\x.(f x) y)`,
		`((\m.\n.\f.\x.((m f) ((n f) x)) \f.\x.(f (f x))) \f.\x.(f x))`,
		"(a (b c))",
	}
	for _, src := range inputs {
		once := eval.Normalize(mustParse(t, src))
		twice := eval.Normalize(once)
		if !ast.Equal(once, twice) {
			t.Fatalf("eval not idempotent for %q: %s then %s", src, once, twice)
		}
		if !ast.IsNormal(once) {
			t.Fatalf("result of %q still has a redex: %s", src, once)
		}
	}
}

func TestNilExpression(t *testing.T) {
	if got := eval.Normalize(nil); got != nil {
		t.Fatalf("Normalize(nil) = %v", got)
	}
	if _, _, err := eval.New(eval.Options{}).Run(context.Background(), nil); err == nil {
		t.Fatal("Run(nil) must report an error")
	}
}

func TestChurchAddition(t *testing.T) {
	plus := `\m.\n.\f.\x.((m f) ((n f) x))`
	two := `\f.\x.(f (f x))`
	three := `\f.\x.(f (f (f x)))`
	src := "((" + plus + " " + two + ") " + three + ")"
	want := mustParse(t, `\f.\x.(f (f (f (f (f x)))))`)
	for _, mode := range []eval.SubstMode{eval.SubstTextual, eval.SubstCaptureAvoiding} {
		out, err := eval.New(eval.Options{Mode: mode}).Eval(context.Background(), mustParse(t, src))
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !ast.AlphaEqual(out, want) {
			t.Fatalf("%s: 2+3 = %s", mode, out)
		}
	}
}

func TestSubstitutionModes(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		textual  string
		hygienic string
		captures int
	}{
		{"free argument captured", `(\x.\y.x y)`, `\y.y`, `\y'.y`, 1},
		{"shadowing binder", `(\x.\x.x a)`, `\x.a`, `\x.x`, 0},
		{"no conflict", `(\x.\y.(y x) a)`, `\y.(y a)`, `\y.(y a)`, 0},
		{"fresh name skips used primes", `(\x.\y.(x y') y)`, `\y.(y y')`, `\y''.(y y')`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := evalString(t, tt.src, eval.Options{Mode: eval.SubstTextual})
			if got != tt.textual {
				t.Errorf("textual = %q, want %q", got, tt.textual)
			}
			if stats.Captures != tt.captures {
				t.Errorf("captures = %d, want %d", stats.Captures, tt.captures)
			}
			got, _ = evalString(t, tt.src, eval.Options{Mode: eval.SubstCaptureAvoiding})
			if got != tt.hygienic {
				t.Errorf("capture-avoiding = %q, want %q", got, tt.hygienic)
			}
		})
	}
}

func TestSubstituteCopiesArgument(t *testing.T) {
	arg := ast.NewFunction("z", ast.NewName("z"))
	out := eval.Substitute(mustParse(t, "(x x)"), "x", arg, eval.SubstTextual)
	app := out.(*ast.Application)
	if app.Func == ast.Expr(arg) || app.Func == app.Arg {
		t.Fatal("substituted occurrences share nodes")
	}
	if ast.Print(out) != `(\z.z \z.z)` {
		t.Fatalf("got %s", out)
	}
}

func TestEvalDeepTerms(t *testing.T) {
	const depth = 100_000

	var nested ast.Expr = ast.NewApplication(ast.NewFunction("x", ast.NewName("x")), ast.NewName("v"))
	for range depth {
		nested = ast.NewFunction("x", nested)
	}
	out, err := eval.New(eval.Options{}).Eval(context.Background(), nested)
	if err != nil {
		t.Fatal(err)
	}
	if ast.Depth(out) != depth+1 {
		t.Fatalf("depth = %d", ast.Depth(out))
	}

	var chain ast.Expr = ast.NewName("f")
	for range depth {
		chain = ast.NewApplication(chain, ast.NewApplication(ast.NewFunction("y", ast.NewName("y")), ast.NewName("a")))
	}
	out, stats, err := eval.New(eval.Options{}).Run(context.Background(), chain)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Steps != depth {
		t.Fatalf("steps = %d, want %d", stats.Steps, depth)
	}
	if !ast.IsNormal(out) {
		t.Fatal("chain not normalized")
	}
}

func TestStep(t *testing.T) {
	out, ok := eval.Step(mustParse(t, `(\x.x y)`), eval.SubstTextual)
	if !ok || ast.Print(out) != "y" {
		t.Fatalf("Step = %s, %v", out, ok)
	}
	normal := mustParse(t, `\x.(x y)`)
	out, ok = eval.Step(normal, eval.SubstTextual)
	if ok || out != normal {
		t.Fatal("Step on a normal form must report false")
	}
	// внешний редекс раньше внутреннего
	out, _ = eval.Step(mustParse(t, `(\x.a (\y.y b))`), eval.SubstTextual)
	if ast.Print(out) != "a" {
		t.Fatalf("leftmost-outermost step = %s", out)
	}
}

func TestReduceSequence(t *testing.T) {
	var seen []string
	out, stats, err := eval.New(eval.Options{}).Reduce(context.Background(), mustParse(t, `((\x.\y.x one) two)`), func(_ int, term ast.Expr) bool {
		seen = append(seen, ast.Print(term))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`(\y.one two)`, "one"}
	if strings.Join(seen, "|") != strings.Join(want, "|") {
		t.Fatalf("sequence = %v, want %v", seen, want)
	}
	if stats.Steps != 2 || ast.Print(out) != "one" {
		t.Fatalf("stats=%+v out=%s", stats, out)
	}

	_, _, err = eval.New(eval.Options{MaxSteps: 10}).Reduce(context.Background(), mustParse(t, omega), nil)
	var limit *eval.StepLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected step limit, got %v", err)
	}
}

func TestEvalEmitsStepTrace(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	meter := &trace.Meter{}
	ctx := trace.WithMeter(trace.WithTracer(context.Background(), ring), meter)
	if _, err := eval.New(eval.Options{}).Eval(ctx, mustParse(t, `((\x.\y.x one) two)`)); err != nil {
		t.Fatal(err)
	}
	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 beta events, got %d", len(events))
	}
	want := []trace.Redex{{Step: 1, Binder: "x", Depth: 1}, {Step: 2, Binder: "y", Depth: 0}}
	for i, ev := range events {
		if ev.Kind != trace.KindStep || ev.Redex == nil || *ev.Redex != want[i] {
			t.Fatalf("event %d = %+v, want redex %+v", i, ev, want[i])
		}
	}
	if got := meter.Snapshot(); got.Steps != 2 || got.Active != 0 {
		t.Fatalf("meter = %+v", got)
	}
}

func TestParseSubstMode(t *testing.T) {
	if m, err := eval.ParseSubstMode("capture-avoiding"); err != nil || m != eval.SubstCaptureAvoiding {
		t.Fatalf("got %v, %v", m, err)
	}
	if _, err := eval.ParseSubstMode("lazy"); err == nil {
		t.Fatal("expected error")
	}
}
