package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"lambda/internal/diag"
	"lambda/internal/eval"
	"lambda/internal/parser"
	"lambda/internal/source"
	"lambda/internal/token"
	"lambda/internal/trace"
)

func TestInterpretScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x", "x"},
		{`\x.x`, `\x.x`},
		{`(\x.x y)`, "y"},
		{"(x y)", "(x y)"},
		{`((\x.\y.x one) two)`, "one"},
	}
	for _, tt := range tests {
		got, err := Interpret(context.Background(), tt.src, Options{})
		if err != nil {
			t.Fatalf("Interpret(%q): %v", tt.src, err)
		}
		if got != tt.want {
			t.Fatalf("Interpret(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestInterpretParseError(t *testing.T) {
	_, err := Interpret(context.Background(), "(x y", Options{})
	var ute *parser.UnexpectedTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("expected *UnexpectedTokenError, got %v", err)
	}
	if ute.Token.Kind != token.EOF {
		t.Fatalf("unexpected token %v", ute.Token)
	}
	if !strings.Contains(err.Error(), "EOF") || !strings.Contains(err.Error(), "1:5") {
		t.Fatalf("error should name the token and position: %q", err.Error())
	}
}

func TestEvaluateSourceDiagnostics(t *testing.T) {
	res := EvaluateSource(context.Background(), "<input>", "(x y", Options{})
	if res.Err == nil || res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.SynUnexpectedToken {
		t.Fatalf("expected one SYN2001 diagnostic, got %+v", res.Bag.Items())
	}

	omega := `(\x.(x x) \x.(x x))`
	res = EvaluateSource(context.Background(), "<input>", omega, Options{Eval: eval.Options{MaxSteps: 50}})
	var limit *eval.StepLimitError
	if !errors.As(res.Err, &limit) {
		t.Fatalf("expected step limit, got %v", res.Err)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.EvalStepLimit {
		t.Fatalf("expected EVL3001, got %+v", res.Bag.Items())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = EvaluateSource(ctx, "<input>", omega, Options{})
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", res.Err)
	}
	if res.Bag.Items()[0].Code != diag.EvalCanceled {
		t.Fatalf("expected EVL3002, got %+v", res.Bag.Items())
	}
}

func TestEvaluateWarnsAboutCapture(t *testing.T) {
	res := EvaluateSource(context.Background(), "<input>", `(\x.\y.x y)`, Options{})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Text != `\y.y` {
		t.Fatalf("textual result = %q", res.Text)
	}
	if !res.Bag.HasWarnings() || res.Bag.Items()[0].Code != diag.EvalCaptureRisk {
		t.Fatalf("expected capture warning, got %+v", res.Bag.Items())
	}

	res = EvaluateSource(context.Background(), "<input>", `(\x.\y.x y)`, Options{Eval: eval.Options{Mode: eval.SubstCaptureAvoiding}})
	if res.Text != `\y'.y` || res.Bag.Len() != 0 {
		t.Fatalf("capture-avoiding result = %q, diags %+v", res.Text, res.Bag.Items())
	}
}

func TestPipelineReportsEachDiagnosticOnce(t *testing.T) {
	res := EvaluateSource(context.Background(), "<input>", `(\x.\y.x y)`, Options{})
	res.warnCaptures()
	res.warnCaptures()
	if res.Bag.Len() != 1 {
		t.Fatalf("expected a single capture warning, got %+v", res.Bag.Items())
	}

	res = EvaluateSource(context.Background(), "<input>", "(x", Options{})
	reportEvalError(res.reporter, source.Span{}, errors.New("boom"))
	reportEvalError(res.reporter, source.Span{}, errors.New("boom"))
	if res.Bag.Len() != 2 {
		t.Fatalf("expected parse error plus one eval error, got %+v", res.Bag.Items())
	}
}

func TestEvalSpanCarriesProgress(t *testing.T) {
	ring := trace.NewRingTracer(32, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	res := EvaluateSource(ctx, "<input>", `((\x.\y.x one) two)`, Options{})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	var names []string
	var end *trace.Event
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+":"+ev.Name)
		if ev.Kind == trace.KindEnd && ev.Name == "eval" {
			end = &ev
		}
	}
	if got := strings.Join(names, " "); got != "begin:lex end:lex begin:parse end:parse begin:eval end:eval" {
		t.Fatalf("events = %s", got)
	}
	if end.Progress == nil || end.Progress.Steps != 2 || end.Detail != "2 steps" {
		t.Fatalf("eval end = %+v", end)
	}
}

func TestEvaluateRecordsPhases(t *testing.T) {
	res := EvaluateSource(context.Background(), "<input>", `(\x.x y)`, Options{})
	var names []string
	for _, p := range res.Timer.Report().Phases {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "lex,parse,eval" {
		t.Fatalf("phases = %v", names)
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache, err := OpenResultCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}
	src := `((\x.\y.x one) two)`

	first := EvaluateSource(context.Background(), "<input>", src, opts)
	if first.Err != nil || first.Cached {
		t.Fatalf("first run: err=%v cached=%v", first.Err, first.Cached)
	}
	second := EvaluateSource(context.Background(), "<input>", src, opts)
	if !second.Cached || second.Text != "one" || second.Stats.Steps != 2 {
		t.Fatalf("second run: cached=%v text=%q steps=%d", second.Cached, second.Text, second.Stats.Steps)
	}

	// другой режим - другой ключ
	other := EvaluateSource(context.Background(), "<input>", src, Options{Cache: cache, Eval: eval.Options{Mode: eval.SubstCaptureAvoiding}})
	if other.Cached {
		t.Fatal("cache must be keyed by substitution mode")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third := EvaluateSource(context.Background(), "<input>", src, opts)
	if third.Cached {
		t.Fatal("cache entry survived DropAll")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	src := []byte("x")
	a := CacheKey(src, eval.Options{})
	if a != CacheKey(src, eval.Options{}) {
		t.Fatal("key must be deterministic")
	}
	if a == CacheKey(src, eval.Options{MaxSteps: 10}) {
		t.Fatal("key must include max steps")
	}
	if a == CacheKey([]byte("y"), eval.Options{}) {
		t.Fatal("key must include source")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestEvalFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	paths := []string{
		write("a.lc", `(\x.x a)`),
		write("b.lc", "(b"),
		filepath.Join(dir, "missing.lc"),
		write("c.lc", `((\x.\y.x c) d)`),
	}

	sink := &recordingSink{}
	_, results, err := EvalFiles(context.Background(), paths, BatchOptions{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Text != "a" || results[3].Text != "c" {
		t.Fatalf("results out of order: %q %q", results[0].Text, results[3].Text)
	}
	if results[1].Err == nil || results[1].Bag.Items()[0].Code != diag.SynUnexpectedToken {
		t.Fatalf("b.lc should fail to parse: %+v", results[1])
	}
	if results[2].Err == nil || results[2].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing.lc should report IO4001: %+v", results[2])
	}

	done := map[Status]int{}
	for _, e := range sink.events {
		if e.Status == StatusDone || e.Status == StatusError {
			done[e.Status]++
		}
	}
	if done[StatusDone] != 2 || done[StatusError] != 2 {
		t.Fatalf("unexpected final statuses %v", done)
	}
}

func TestTokenizeSource(t *testing.T) {
	res := TokenizeSource("<input>", `\x.x`, 0)
	if len(res.Tokens) != 5 || !res.Tokens[4].IsEOF() {
		t.Fatalf("unexpected tokens %v", res.Tokens)
	}
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.lc"), 0); err == nil {
		t.Fatal("expected load error")
	}
}

func TestParseSource(t *testing.T) {
	res := ParseSource(context.Background(), "<input>", `\x.(x x)`, Options{})
	if res.Err != nil || res.Expr == nil {
		t.Fatalf("parse: %v", res.Err)
	}
	res = ParseSource(context.Background(), "<input>", `\x.\y.\z.z`, Options{MaxDepth: 2})
	var deep *parser.NestingTooDeepError
	if !errors.As(res.Err, &deep) {
		t.Fatalf("expected nesting error, got %v", res.Err)
	}
}
