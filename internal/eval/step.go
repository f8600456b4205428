package eval

import (
	"context"

	"lambda/internal/ast"
	"lambda/internal/trace"
)

// Step performs one leftmost-outermost beta step. It reports false when expr
// is already in normal form, in which case expr is returned unchanged.
func Step(expr ast.Expr, mode SubstMode) (ast.Expr, bool) {
	out, _, ok := step(expr, mode)
	return out, ok
}

func step(expr ast.Expr, mode SubstMode) (ast.Expr, int, bool) {
	var redex *ast.Application
	ast.Walk(expr, func(e ast.Expr) bool {
		if redex != nil {
			return false
		}
		if ast.IsRedex(e) {
			redex = e.(*ast.Application)
			return false
		}
		return true
	})
	if redex == nil {
		return expr, 0, false
	}
	fn := redex.Func.(*ast.Function)
	reduced, captured := substitute(fn.Body, fn.Param, redex.Arg, mode)
	return replaceNode(expr, redex, reduced), captured, true
}

// replaceNode copies root with the node target swapped for with.
func replaceNode(root, target, with ast.Expr) ast.Expr {
	type op struct {
		expr  ast.Expr
		build ast.Expr
	}
	ops := []op{{expr: root}}
	var results []ast.Expr
	for len(ops) > 0 {
		o := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if o.expr == nil {
			switch b := o.build.(type) {
			case *ast.Function:
				results[len(results)-1] = &ast.Function{Param: b.Param, ParamSpan: b.ParamSpan, Body: results[len(results)-1], Span: b.Span}
			case *ast.Application:
				fn, arg := results[len(results)-2], results[len(results)-1]
				results = results[:len(results)-1]
				results[len(results)-1] = &ast.Application{Func: fn, Arg: arg, Span: b.Span}
			}
			continue
		}
		if o.expr == target {
			results = append(results, with)
			continue
		}
		switch n := o.expr.(type) {
		case *ast.Name:
			results = append(results, &ast.Name{Ident: n.Ident, Span: n.Span})
		case *ast.Function:
			ops = append(ops, op{build: n}, op{expr: n.Body})
		case *ast.Application:
			ops = append(ops, op{build: n}, op{expr: n.Arg}, op{expr: n.Func})
		}
	}
	return results[0]
}

// Reduce applies Step until expr is normal, calling visit with the term after
// every step. visit returning false stops early without error. The step
// ceiling and ctx are honoured as in Eval.
func (e *Evaluator) Reduce(ctx context.Context, expr ast.Expr, visit func(step int, term ast.Expr) bool) (ast.Expr, Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	meter := trace.MeterFromContext(ctx)
	meter.Enter()
	defer meter.Leave()

	var stats Stats
	cur := expr
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if e.opts.MaxSteps > 0 && stats.Steps >= e.opts.MaxSteps && !ast.IsNormal(cur) {
			return nil, stats, &StepLimitError{Steps: e.opts.MaxSteps}
		}
		next, captured, ok := step(cur, e.opts.Mode)
		if !ok {
			return cur, stats, nil
		}
		stats.Steps++
		stats.Captures += captured
		meter.Step(0, captured)
		cur = next
		if visit != nil && !visit(stats.Steps, cur) {
			return cur, stats, nil
		}
	}
}
