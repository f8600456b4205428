// Package ast defines the expression tree of the untyped lambda calculus.
//
// A tree is finite and acyclic and every child is owned by exactly one parent.
// Passes that rewrite a tree build fresh nodes and never mutate their input.
package ast

import (
	"lambda/internal/source"
)

// ExprKind enumerates expression node kinds.
type ExprKind uint8

const (
	// ExprName is a variable reference.
	ExprName ExprKind = iota
	// ExprFunction is a lambda abstraction.
	ExprFunction
	// ExprApplication is a function application.
	ExprApplication
)

func (k ExprKind) String() string {
	switch k {
	case ExprName:
		return "Name"
	case ExprFunction:
		return "Function"
	case ExprApplication:
		return "Application"
	default:
		return "Unknown"
	}
}

// Expr is one of *Name, *Function or *Application.
type Expr interface {
	Kind() ExprKind
	String() string
	exprNode()
}

// Name is a free or bound variable reference.
type Name struct {
	Ident string
	Span  source.Span
}

// Function is a lambda abstraction `\Param.Body`.
type Function struct {
	Param     string
	ParamSpan source.Span
	Body      Expr
	Span      source.Span
}

// Application applies Func to Arg: `(Func Arg)`.
type Application struct {
	Func Expr
	Arg  Expr
	Span source.Span
}

func (*Name) exprNode()        {}
func (*Function) exprNode()    {}
func (*Application) exprNode() {}

func (*Name) Kind() ExprKind        { return ExprName }
func (*Function) Kind() ExprKind    { return ExprFunction }
func (*Application) Kind() ExprKind { return ExprApplication }

// SpanOf returns the source range e was parsed from.
// Nodes built during evaluation carry a zero span.
func SpanOf(e Expr) source.Span {
	switch e := e.(type) {
	case *Name:
		return e.Span
	case *Function:
		return e.Span
	case *Application:
		return e.Span
	default:
		return source.Span{}
	}
}

func (n *Name) String() string        { return Print(n) }
func (f *Function) String() string    { return Print(f) }
func (a *Application) String() string { return Print(a) }

// NewName creates a name node without a source span.
func NewName(ident string) *Name {
	return &Name{Ident: ident}
}

// NewFunction creates an abstraction node without a source span.
func NewFunction(param string, body Expr) *Function {
	return &Function{Param: param, Body: body}
}

// NewApplication creates an application node without a source span.
func NewApplication(fn, arg Expr) *Application {
	return &Application{Func: fn, Arg: arg}
}
