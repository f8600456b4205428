package ast

// Clone returns a deep copy of e. Spans are preserved.
func Clone(e Expr) Expr {
	return Rebuild(e, func(n *Name) Expr {
		c := *n
		return &c
	})
}

// rebuildOp - шаг итеративной пересборки дерева.
type rebuildOp struct {
	expr  Expr // узел для обхода; nil - собрать узел из стека результатов
	build Expr // образец для сборки (*Function или *Application)
}

// Rebuild copies e bottom-up, replacing every name with leaf(name).
// Function and Application nodes are copied with their spans.
func Rebuild(e Expr, leaf func(*Name) Expr) Expr {
	if e == nil {
		return nil
	}
	ops := []rebuildOp{{expr: e}}
	var results []Expr
	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op.expr == nil {
			switch b := op.build.(type) {
			case *Function:
				body := results[len(results)-1]
				results[len(results)-1] = &Function{Param: b.Param, ParamSpan: b.ParamSpan, Body: body, Span: b.Span}
			case *Application:
				fn, arg := results[len(results)-2], results[len(results)-1]
				results = results[:len(results)-1]
				results[len(results)-1] = &Application{Func: fn, Arg: arg, Span: b.Span}
			}
			continue
		}
		switch n := op.expr.(type) {
		case *Name:
			results = append(results, leaf(n))
		case *Function:
			ops = append(ops, rebuildOp{build: n}, rebuildOp{expr: n.Body})
		case *Application:
			ops = append(ops, rebuildOp{build: n}, rebuildOp{expr: n.Arg}, rebuildOp{expr: n.Func})
		}
	}
	return results[0]
}

// Walk visits e and its descendants in pre-order, left to right.
// Returning false from fn skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	stack := []Expr{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *Function:
			stack = append(stack, n.Body)
		case *Application:
			stack = append(stack, n.Arg, n.Func)
		}
	}
}

// Size returns the number of nodes in e.
func Size(e Expr) int {
	count := 0
	Walk(e, func(Expr) bool {
		count++
		return true
	})
	return count
}

// Depth returns the length of the longest root-to-leaf path; a single name has depth 1.
func Depth(e Expr) int {
	type frame struct {
		expr  Expr
		depth int
	}
	maxDepth := 0
	stack := []frame{{e, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.expr == nil {
			continue
		}
		maxDepth = max(maxDepth, f.depth)
		switch n := f.expr.(type) {
		case *Function:
			stack = append(stack, frame{n.Body, f.depth + 1})
		case *Application:
			stack = append(stack, frame{n.Func, f.depth + 1}, frame{n.Arg, f.depth + 1})
		}
	}
	return maxDepth
}

// FreeVars returns the set of names occurring free in e.
func FreeVars(e Expr) map[string]struct{} {
	free := make(map[string]struct{})
	bound := make(map[string]int)
	scopeWalk(e, bound, func(n *Name) bool {
		if bound[n.Ident] == 0 {
			free[n.Ident] = struct{}{}
		}
		return true
	})
	return free
}

// OccursFree reports whether name occurs free in e.
func OccursFree(e Expr, name string) bool {
	found := false
	bound := make(map[string]int)
	scopeWalk(e, bound, func(n *Name) bool {
		if n.Ident == name && bound[name] == 0 {
			found = true
		}
		return !found
	})
	return found
}

// Names returns every identifier used in e, as a binder or as a reference.
func Names(e Expr) map[string]struct{} {
	names := make(map[string]struct{})
	Walk(e, func(n Expr) bool {
		switch n := n.(type) {
		case *Name:
			names[n.Ident] = struct{}{}
		case *Function:
			names[n.Param] = struct{}{}
		}
		return true
	})
	return names
}

// scopeWalk visits names in e left to right while keeping bound up to date
// with the binders enclosing the current name. Returning false stops the walk.
func scopeWalk(e Expr, bound map[string]int, visit func(*Name) bool) {
	type item struct {
		expr  Expr
		leave string // не пусто: выход из области видимости binder'а
		exit  bool
	}
	stack := []item{{expr: e}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.exit {
			bound[it.leave]--
			continue
		}
		switch n := it.expr.(type) {
		case *Name:
			if !visit(n) {
				return
			}
		case *Function:
			bound[n.Param]++
			stack = append(stack, item{leave: n.Param, exit: true}, item{expr: n.Body})
		case *Application:
			stack = append(stack, item{expr: n.Arg}, item{expr: n.Func})
		}
	}
}

// IsRedex reports whether e is an application whose head is an abstraction.
func IsRedex(e Expr) bool {
	app, ok := e.(*Application)
	if !ok {
		return false
	}
	_, ok = app.Func.(*Function)
	return ok
}

// IsNormal reports whether e contains no redex anywhere.
func IsNormal(e Expr) bool {
	normal := true
	Walk(e, func(n Expr) bool {
		if IsRedex(n) {
			normal = false
		}
		return normal
	})
	return normal
}
