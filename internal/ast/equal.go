package ast

// Equal reports whether a and b have the same shape and names.
// Spans are ignored.
func Equal(a, b Expr) bool {
	type pair struct{ a, b Expr }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := p.a.(type) {
		case *Name:
			y, ok := p.b.(*Name)
			if !ok || x.Ident != y.Ident {
				return false
			}
		case *Function:
			y, ok := p.b.(*Function)
			if !ok || x.Param != y.Param {
				return false
			}
			stack = append(stack, pair{x.Body, y.Body})
		case *Application:
			y, ok := p.b.(*Application)
			if !ok {
				return false
			}
			stack = append(stack, pair{x.Func, y.Func}, pair{x.Arg, y.Arg})
		default:
			if p.a != nil || p.b != nil {
				return false
			}
		}
	}
	return true
}

// AlphaEqual reports whether a and b are equal up to consistent renaming of
// bound variables, e.g. `\x.x` and `\y.y`. Free names must match exactly.
func AlphaEqual(a, b Expr) bool {
	return alphaEqual(a, b, nil, nil)
}

// envA/envB - стеки связанных имён, внутренний binder в конце.
func alphaEqual(a, b Expr, envA, envB []string) bool {
	switch x := a.(type) {
	case *Name:
		y, ok := b.(*Name)
		if !ok {
			return false
		}
		ia, ib := lookupBinder(envA, x.Ident), lookupBinder(envB, y.Ident)
		if ia != ib {
			return false
		}
		// оба свободны - имена должны совпасть
		return ia >= 0 || x.Ident == y.Ident
	case *Function:
		y, ok := b.(*Function)
		if !ok {
			return false
		}
		return alphaEqual(x.Body, y.Body, append(envA, x.Param), append(envB, y.Param))
	case *Application:
		y, ok := b.(*Application)
		if !ok {
			return false
		}
		return alphaEqual(x.Func, y.Func, envA, envB) && alphaEqual(x.Arg, y.Arg, envA, envB)
	default:
		return a == nil && b == nil
	}
}

// lookupBinder returns the de Bruijn index of name in env, or -1 when free.
func lookupBinder(env []string, name string) int {
	for i := len(env) - 1; i >= 0; i-- {
		if env[i] == name {
			return len(env) - 1 - i
		}
	}
	return -1
}
