package ast

import (
	"diagen/internal/source"
)

// ExprKind tags the expression variants.
type ExprKind uint8

const (
	// ExprIdent is a bare identifier.
	ExprIdent ExprKind = iota
	// ExprString is a string literal (Str holds the unquoted value).
	ExprString
	// ExprInt is an integer literal.
	ExprInt
	// ExprCall is a call `callee(args...)`.
	ExprCall
	// ExprMember is member access `recv.name`. It parses so the security
	// scanner can reject it with a precise finding; it is never legal.
	ExprMember
)

// Expr is a tagged expression variant.
type Expr struct {
	Kind   ExprKind
	Span   source.Span
	Ident  string
	Str    string
	Int    int64
	Call   *CallExpr
	Member *MemberExpr
}

// CallExpr is a call with positional and named arguments.
type CallExpr struct {
	Callee *Expr
	Args   []Arg
}

// Arg is one call argument; Name is empty for positional arguments.
type Arg struct {
	Name     string
	NameSpan source.Span
	Value    *Expr
}

// MemberExpr is member access `recv.name`.
type MemberExpr struct {
	Recv     *Expr
	Name     string
	NameSpan source.Span
}

// CalleeIdent returns the bare identifier a call is invoked on, when the
// callee is a plain identifier.
func (e *Expr) CalleeIdent() (string, bool) {
	if e == nil || e.Kind != ExprCall || e.Call == nil {
		return "", false
	}
	callee := e.Call.Callee
	if callee == nil || callee.Kind != ExprIdent {
		return "", false
	}
	return callee.Ident, true
}

// FirstStringArg returns the first positional string argument of a call.
func (e *Expr) FirstStringArg() (string, bool) {
	if e == nil || e.Kind != ExprCall || e.Call == nil {
		return "", false
	}
	for _, arg := range e.Call.Args {
		if arg.Name != "" {
			continue
		}
		if arg.Value != nil && arg.Value.Kind == ExprString {
			return arg.Value.Str, true
		}
	}
	return "", false
}
