package driver

import (
	"context"
	"fmt"

	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/lexer"
	"lambda/internal/observ"
	"lambda/internal/parser"
	"lambda/internal/source"
	"lambda/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Expr    ast.Expr
	Bag     *diag.Bag
	Timer   *observ.Timer
	// Err - ошибка разбора (*parser.UnexpectedTokenError и т.п.), она же в Bag.
	Err error

	// все фазы пишут в Bag через один фильтр дублей
	reporter diag.Reporter
}

// Parse loads path and parses it. The returned error is only set when the
// file cannot be read; syntax errors are reported through ParseResult.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(ctx, fs, fileID, opts, observ.NewTimer()), nil
}

// ParseSource parses in-memory text registered under name.
func ParseSource(ctx context.Context, name, src string, opts Options) *ParseResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	return parseFile(ctx, fs, fileID, opts, observ.NewTimer())
}

func parseFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options, timer *observ.Timer) *ParseResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.maxDiagnostics())
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	lexSpan := trace.Begin(tracer, trace.ScopePass, "lex", parent)
	lexIdx := timer.Begin("lex")
	tokens := lexer.Tokenize(file)
	note := fmt.Sprintf("%d tokens", len(tokens))
	timer.End(lexIdx, note)
	lexSpan.End(note)

	parseSpan := trace.Begin(tracer, trace.ScopePass, "parse", parent)
	parseIdx := timer.Begin("parse")
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	expr, err := parser.ParseTokens(tokens, parser.Options{
		Reporter: reporter,
		MaxDepth: opts.MaxDepth,
	})
	note = "ok"
	if err != nil {
		note = "error"
	}
	timer.End(parseIdx, note)
	parseSpan.End(note)

	return &ParseResult{
		FileSet:  fs,
		File:     file,
		Expr:     expr,
		Bag:      bag,
		Timer:    timer,
		Err:      err,
		reporter: reporter,
	}
}
