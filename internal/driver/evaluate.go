package driver

import (
	"context"
	"errors"
	"fmt"

	"lambda/internal/ast"
	"lambda/internal/diag"
	"lambda/internal/eval"
	"lambda/internal/observ"
	"lambda/internal/parser"
	"lambda/internal/source"
	"lambda/internal/trace"
)

// EvalResult holds everything produced for one input.
type EvalResult struct {
	FileSet *source.FileSet
	File    *source.File
	Expr    ast.Expr // разобранное выражение
	Normal  ast.Expr // нормальная форма
	Text    string   // ast.Print(Normal)
	Stats   eval.Stats
	Cached  bool
	Bag     *diag.Bag
	Timer   *observ.Timer
	// Err - ошибка разбора или вычисления; соответствующая диагностика лежит в Bag.
	Err error

	reporter diag.Reporter
}

// EvaluateFile loads, parses and normalizes path. The returned error is only
// set when the file cannot be read.
func EvaluateFile(ctx context.Context, path string, opts Options) (*EvalResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return evaluate(ctx, fs, fileID, opts), nil
}

// EvaluateSource parses and normalizes in-memory text registered under name.
func EvaluateSource(ctx context.Context, name, src string, opts Options) *EvalResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	return evaluate(ctx, fs, fileID, opts)
}

func evaluate(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *EvalResult {
	timer := observ.NewTimer()
	pr := parseFile(ctx, fs, fileID, opts, timer)
	res := &EvalResult{
		FileSet:  fs,
		File:     pr.File,
		Expr:     pr.Expr,
		Bag:      pr.Bag,
		Timer:    timer,
		Err:      pr.Err,
		reporter: pr.reporter,
	}
	if pr.Err != nil {
		return res
	}

	key := CacheKey(pr.File.Content, opts.Eval)
	if res.lookupCache(opts.Cache, key) {
		res.warnCaptures()
		return res
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "eval", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	idx := timer.Begin("eval")
	normal, stats, err := eval.New(opts.Eval).Run(ctx, pr.Expr)
	note := fmt.Sprintf("%d steps", stats.Steps)
	timer.End(idx, note)
	span.WithProgress(trace.Progress{
		Steps:    int64(stats.Steps),
		MaxStack: int64(stats.MaxStack),
		Captures: int64(stats.Captures),
	}).End(note)

	res.Stats = stats
	if err != nil {
		res.Err = err
		reportEvalError(res.reporter, ast.SpanOf(pr.Expr), err)
		return res
	}
	res.Normal = normal
	res.Text = ast.Print(normal)
	res.warnCaptures()

	if opts.Cache != nil {
		// кэш - оптимизация, ошибки записи не ломают результат
		_ = opts.Cache.Store(key, &CachePayload{
			Mode:     opts.Eval.Mode.String(),
			MaxSteps: opts.Eval.MaxSteps,
			Result:   res.Text,
			Steps:    stats.Steps,
			Captures: stats.Captures,
		})
	}
	return res
}

func (res *EvalResult) lookupCache(cache *ResultCache, key CacheDigest) bool {
	if cache == nil {
		return false
	}
	payload, ok := cache.Lookup(key)
	if !ok {
		return false
	}
	normal, err := parser.ParseString(payload.Result, parser.Options{})
	if err != nil {
		return false
	}
	res.Normal, res.Text, res.Cached = normal, payload.Result, true
	res.Stats = eval.Stats{Steps: payload.Steps, Captures: payload.Captures}
	idx := res.Timer.Begin("eval")
	res.Timer.End(idx, "cached")
	return true
}

func (res *EvalResult) warnCaptures() {
	if res.Stats.Captures == 0 {
		return
	}
	diag.ReportWarning(res.reporter, diag.EvalCaptureRisk, ast.SpanOf(res.Expr),
		fmt.Sprintf("substitution captured %d free name(s); capture-avoiding reduction may give a different result", res.Stats.Captures)).Emit()
}

func reportEvalError(r diag.Reporter, whole source.Span, err error) {
	var limit *eval.StepLimitError
	switch {
	case errors.As(err, &limit):
		diag.ReportError(r, diag.EvalStepLimit, whole, err.Error()).Emit()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		diag.ReportError(r, diag.EvalCanceled, whole, "evaluation canceled: "+err.Error()).Emit()
	default:
		diag.ReportError(r, diag.UnknownCode, whole, err.Error()).Emit()
	}
}
