package fuzztests

import (
	"context"
	"strings"
	"testing"
	"time"

	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/eval"
	"lambda/internal/lexer"
	"lambda/internal/parser"
	"lambda/internal/source"
	"lambda/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
const parseTimeout = 5 * time.Second

// fuzzSteps bounds evaluation of arbitrary, possibly divergent, terms.
const fuzzSteps = 200

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.lc", clampInput(input))
		file := fs.Get(fileID)

		bag := diag.NewBag(16)
		expr, err := parser.ParseTokens(lexer.Tokenize(file), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			if bag.Len() != 1 || !bag.HasErrors() {
				t.Fatalf("parse error %v must produce exactly one diagnostic, got %d", err, bag.Len())
			}
			return
		}
		if bag.Len() != 0 {
			t.Fatalf("successful parse reported diagnostics: %+v", bag.Items())
		}
		if err := testkit.CheckTreeInvariants(expr, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}

		printed := ast.Print(expr)
		again, err := parser.ParseString(printed, parser.Options{})
		if err != nil {
			t.Fatalf("printed form %q does not parse: %v", printed, err)
		}
		if !ast.Equal(expr, again) {
			t.Fatalf("round trip changed the tree: %q -> %q", printed, ast.Print(again))
		}
	})
}

// FuzzParserNoHang tests that the parser finishes on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte(strings.Repeat("(", 4096)))
	f.Add([]byte(strings.Repeat(`\x.`, 4096) + "x"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseString(string(input), parser.Options{})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected on %d bytes", len(input))
		}
	})
}

// FuzzEvalNormalForm checks that the machine and the small-step reducer agree
// whenever both normalize within the step budget.
func FuzzEvalNormalForm(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > 4096 {
			return
		}
		expr, err := parser.ParseString(string(input), parser.Options{})
		if err != nil {
			return
		}
		opts := eval.Options{MaxSteps: fuzzSteps, Mode: eval.SubstCaptureAvoiding}
		ev := eval.New(opts)
		// дублирующие термы растут экспоненциально, бюджет шагов от этого не спасает
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		normal, _, err := ev.Run(ctx, expr)
		if err != nil {
			return
		}
		if !ast.IsNormal(normal) {
			t.Fatalf("result %q still has a redex", ast.Print(normal))
		}
		stepped, _, err := ev.Reduce(ctx, expr, nil)
		if err != nil {
			return
		}
		if !ast.AlphaEqual(normal, stepped) {
			t.Fatalf("machine %q and stepper %q disagree on %q", ast.Print(normal), ast.Print(stepped), input)
		}
	})
}

