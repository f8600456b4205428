// Package eval reduces expressions to beta-normal form.
//
// Reduction follows normal order: the function part of an application is
// reduced before the argument, and arguments are substituted unevaluated.
// Evaluation continues under binders, so the result contains no redex.
//
// The evaluator runs on an explicit continuation stack. Deeply nested terms
// or long reduction chains never grow the goroutine stack.
package eval

import (
	"context"

	"lambda/internal/ast"
)

// Options configures an Evaluator.
type Options struct {
	// MaxSteps bounds the number of beta steps; 0 means unlimited.
	MaxSteps int
	// Mode selects the substitution strategy.
	Mode SubstMode
}

// Stats describes one evaluation.
type Stats struct {
	Steps    int // beta steps performed
	MaxStack int // deepest continuation stack
	Captures int // name captures during textual substitution
}

// Evaluator is safe for concurrent use; each call keeps its own state.
type Evaluator struct {
	opts Options
}

func New(opts Options) *Evaluator {
	return &Evaluator{opts: opts}
}

// Options returns the configuration of e.
func (e *Evaluator) Options() Options {
	return e.opts
}

// Eval reduces expr to normal form.
// It fails with *StepLimitError when the step ceiling is hit and with
// ctx.Err() when ctx is done. The input is never modified.
func (e *Evaluator) Eval(ctx context.Context, expr ast.Expr) (ast.Expr, error) {
	out, _, err := e.Run(ctx, expr)
	return out, err
}

// Run is Eval that also reports evaluation statistics, even on failure.
func (e *Evaluator) Run(ctx context.Context, expr ast.Expr) (ast.Expr, Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m := newMachine(ctx, e.opts)
	m.meter.Enter()
	defer m.meter.Leave()
	out, err := m.run(expr)
	return out, m.stats, err
}

// Normalize reduces expr with textual substitution and no step ceiling.
// A term without normal form makes it loop forever. A nil expr is returned
// as is; a tree with nil children (never produced by the parser or the ast
// constructors) panics.
func Normalize(expr ast.Expr) ast.Expr {
	if expr == nil {
		return nil
	}
	out, _, err := New(Options{}).Run(context.Background(), expr)
	if err != nil {
		// без лимита и без отмены ошибок не бывает
		panic(err)
	}
	return out
}
