package eval

import (
	"lambda/internal/ast"
)

// substOp - шаг итеративной подстановки.
type substOp struct {
	expr ast.Expr // узел для обхода; nil - собрать узел из результатов
	fn   *ast.Function
	app  *ast.Application
	// для собираемой функции: имя параметра после возможного переименования
	param string
	// binder захватывает свободное имя аргумента (только textual)
	capturing bool
}

// Substitute returns a copy of expr with to substituted for the free name
// from. The argument is copied at every occurrence so the result never shares
// nodes with to. Neither input is modified.
func Substitute(expr ast.Expr, from string, to ast.Expr, mode SubstMode) ast.Expr {
	out, _ := substitute(expr, from, to, mode)
	return out
}

// substitute also reports how many occurrences were captured by a binder,
// which only happens in SubstTextual mode.
func substitute(expr ast.Expr, from string, to ast.Expr, mode SubstMode) (ast.Expr, int) {
	if expr == nil {
		return nil, 0
	}
	freeTo := ast.FreeVars(to)
	var (
		ops       = []substOp{{expr: expr}}
		results   []ast.Expr
		capturing int // сколько захватывающих binder'ов над текущим узлом
		captures  int
		used      map[string]struct{}
	)
	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]

		if op.expr == nil {
			switch {
			case op.fn != nil:
				body := results[len(results)-1]
				results[len(results)-1] = &ast.Function{
					Param:     op.param,
					ParamSpan: op.fn.ParamSpan,
					Body:      body,
					Span:      op.fn.Span,
				}
				if op.capturing {
					capturing--
				}
			case op.app != nil:
				fn, arg := results[len(results)-2], results[len(results)-1]
				results = results[:len(results)-1]
				results[len(results)-1] = &ast.Application{Func: fn, Arg: arg, Span: op.app.Span}
			}
			continue
		}

		switch n := op.expr.(type) {
		case *ast.Name:
			if n.Ident == from {
				if capturing > 0 {
					captures++
				}
				results = append(results, ast.Clone(to))
			} else {
				results = append(results, &ast.Name{Ident: n.Ident, Span: n.Span})
			}

		case *ast.Function:
			_, risky := freeTo[n.Param]
			if mode == SubstTextual {
				// заменяем везде, даже под затеняющим binder'ом
				ops = append(ops, substOp{fn: n, param: n.Param, capturing: risky}, substOp{expr: n.Body})
				if risky {
					capturing++
				}
				continue
			}
			if n.Param == from {
				results = append(results, ast.Clone(n))
				continue
			}
			body, param := n.Body, n.Param
			if risky && ast.OccursFree(body, from) {
				if used == nil {
					used = ast.Names(to)
					used[from] = struct{}{}
				}
				for k := range ast.Names(body) {
					used[k] = struct{}{}
				}
				param = freshName(n.Param, used)
				used[param] = struct{}{}
				body = renameFree(body, n.Param, param)
			}
			ops = append(ops, substOp{fn: n, param: param}, substOp{expr: body})

		case *ast.Application:
			ops = append(ops, substOp{app: n}, substOp{expr: n.Arg}, substOp{expr: n.Func})
		}
	}
	return results[0], captures
}

// freshName appends primes to base until the name is unused.
func freshName(base string, used map[string]struct{}) string {
	name := base + "'"
	for {
		if _, taken := used[name]; !taken {
			return name
		}
		name += "'"
	}
}

// renameFree replaces free occurrences of old with fresh. fresh must not
// occur anywhere in e, so no binder inside e can capture it.
func renameFree(e ast.Expr, old, fresh string) ast.Expr {
	out, _ := substitute(e, old, &ast.Name{Ident: fresh}, SubstCaptureAvoiding)
	return out
}
