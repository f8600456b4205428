package eval

import (
	"context"
	"fmt"

	"lambda/internal/ast"
	"lambda/internal/trace"
)

// ctxCheckEvery - как часто (в итерациях) проверять отмену контекста.
const ctxCheckEvery = 1024

type contKind uint8

const (
	// дождаться нормальной формы тела и обернуть в \param.
	contFuncBody contKind = iota
	// голова приложения нормализована; решить: beta или нейтральный терм.
	contAppHead
	// аргумент нейтрального приложения нормализован; собрать (head arg).
	contAppArg
)

type frame struct {
	kind contKind
	fn   *ast.Function // contFuncBody: исходная функция (param, spans)
	arg  ast.Expr      // contAppHead: ещё не вычисленный аргумент
	head ast.Expr      // contAppArg: нормализованная голова
}

type machine struct {
	ctx    context.Context
	opts   Options
	stack  []frame
	stats  Stats
	tracer trace.Tracer
	meter  *trace.Meter
	parent uint64
	ticks  int
}

func newMachine(ctx context.Context, opts Options) *machine {
	return &machine{
		ctx:    ctx,
		opts:   opts,
		tracer: trace.FromContext(ctx),
		meter:  trace.MeterFromContext(ctx),
		parent: trace.CurrentSpan(ctx),
	}
}

// run alternates between two modes: reducing cur (eval) and handing a
// finished value to the top continuation (return).
func (m *machine) run(expr ast.Expr) (ast.Expr, error) {
	cur := expr
	var val ast.Expr
	evaluating := true

	for {
		if err := m.tick(); err != nil {
			return nil, err
		}

		if evaluating {
			switch n := cur.(type) {
			case *ast.Name:
				val, evaluating = n, false
			case *ast.Function:
				m.push(frame{kind: contFuncBody, fn: n})
				cur = n.Body
			case *ast.Application:
				switch f := n.Func.(type) {
				case *ast.Function:
					next, err := m.beta(f, n.Arg)
					if err != nil {
						return nil, err
					}
					cur = next
				case *ast.Application:
					m.push(frame{kind: contAppHead, arg: n.Arg})
					cur = f
				default:
					// голова - имя: терм застрял, нормализуем только аргумент
					m.push(frame{kind: contAppArg, head: f})
					cur = n.Arg
				}
			default:
				return nil, fmt.Errorf("eval: unexpected node %T", cur)
			}
			continue
		}

		if len(m.stack) == 0 {
			return val, nil
		}
		top := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

		switch top.kind {
		case contFuncBody:
			val = &ast.Function{Param: top.fn.Param, ParamSpan: top.fn.ParamSpan, Body: val}
		case contAppHead:
			if fn, ok := val.(*ast.Function); ok {
				next, err := m.beta(fn, top.arg)
				if err != nil {
					return nil, err
				}
				cur, evaluating = next, true
				continue
			}
			m.push(frame{kind: contAppArg, head: val})
			cur, evaluating = top.arg, true
		case contAppArg:
			val = &ast.Application{Func: top.head, Arg: val}
		}
	}
}

// beta fires one reduction step: body[param := arg].
func (m *machine) beta(fn *ast.Function, arg ast.Expr) (ast.Expr, error) {
	if m.opts.MaxSteps > 0 && m.stats.Steps >= m.opts.MaxSteps {
		return nil, &StepLimitError{Steps: m.opts.MaxSteps}
	}
	m.stats.Steps++
	out, captured := substitute(fn.Body, fn.Param, arg, m.opts.Mode)
	m.stats.Captures += captured
	m.meter.Step(len(m.stack), captured)
	trace.Step(m.tracer, m.parent, trace.Redex{Step: m.stats.Steps, Binder: fn.Param, Depth: len(m.stack)})
	return out, nil
}

func (m *machine) push(f frame) {
	m.stack = append(m.stack, f)
	m.stats.MaxStack = max(m.stats.MaxStack, len(m.stack))
}

func (m *machine) tick() error {
	m.ticks++
	if m.ticks%ctxCheckEvery != 0 {
		return nil
	}
	return m.ctx.Err()
}
