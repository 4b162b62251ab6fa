// Package scan is the security gate between parsing and execution. It
// walks the tree and admits only a closed set of operation shapes:
// constructor calls with literal arguments, name bindings, cluster
// blocks, edge chains over bound names, and literal attribute values.
// Anything else is reported as a violation. The walk never stops at the
// first finding; the whole tree is scanned so feedback lists every
// violation at once.
package scan

import (
	"fmt"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/registry"
	"diagen/internal/source"
)

type scanner struct {
	reg        *registry.Registry
	rep        diag.Reporter
	violations int
}

// Check scans one candidate file against the registry's capability
// table. It returns the number of violations found; zero means the
// candidate is safe to hand to the corrector and the sandbox.
func Check(file *ast.File, reg *registry.Registry, rep diag.Reporter) int {
	s := scanner{reg: reg, rep: rep}

	for _, use := range file.Uses {
		if !reg.AllowedNamespace(use.Module) {
			s.violation(diag.SecUnknownNamespace, use.Span,
				fmt.Sprintf("namespace %q is not available", use.Module))
		}
	}
	for _, d := range file.Diagrams {
		s.checkAttrs(d.Attrs)
		s.checkBody(d.Body)
	}
	return s.violations
}

func (s *scanner) violation(code diag.Code, sp source.Span, msg string) {
	s.violations++
	diag.ReportError(s.rep, code, sp, msg)
}

func (s *scanner) checkBody(body []ast.Stmt) {
	for i := range body {
		st := &body[i]
		switch st.Kind {
		case ast.StmtBind:
			s.checkBindValue(st.Bind.Value)
		case ast.StmtExpr:
			s.checkExprStmt(st.Expr)
		case ast.StmtCluster:
			s.checkAttrs(st.Cluster.Attrs)
			s.checkBody(st.Cluster.Body)
		case ast.StmtEdge:
			s.checkEdge(st.Edge)
		}
	}
}

// checkBindValue admits exactly one shape: a constructor call. Aliasing
// a name or binding a bare literal is outside the allowed set.
func (s *scanner) checkBindValue(e *ast.Expr) {
	if e == nil {
		return
	}
	if e.Kind != ast.ExprCall {
		s.violation(diag.SecCallNotAllowed, e.Span,
			"binding value must be a constructor call")
		return
	}
	s.checkCall(e)
}

func (s *scanner) checkExprStmt(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprCall:
		s.checkCall(e)
	case ast.ExprMember:
		s.violation(diag.SecMemberAccess, e.Span,
			"member access is not allowed")
	default:
		s.violation(diag.SecCallNotAllowed, e.Span,
			"only constructor calls are allowed as statements")
	}
}

func (s *scanner) checkCall(e *ast.Expr) {
	callee := e.Call.Callee
	switch callee.Kind {
	case ast.ExprIdent:
		if cap, ok := s.reg.ForbiddenCapability(callee.Ident); ok {
			s.violation(diag.SecForbiddenCall, callee.Span,
				fmt.Sprintf("call to %q is forbidden: reaches for %s capability", callee.Ident, cap))
		}
	case ast.ExprMember:
		s.violation(diag.SecMemberAccess, callee.Span,
			fmt.Sprintf("member call %q is not allowed", memberPath(callee)))
	default:
		s.violation(diag.SecCallNotAllowed, callee.Span,
			"callee must be a plain constructor name")
	}

	for _, arg := range e.Call.Args {
		s.checkArg(arg.Value)
	}
}

// checkArg admits literal arguments only. A call in argument position is
// the classic smuggling vector and gets its own finding kind.
func (s *scanner) checkArg(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprString, ast.ExprInt:
	case ast.ExprCall:
		s.violation(diag.SecNestedCall, e.Span,
			"nested call in argument position is not allowed")
	case ast.ExprMember:
		s.violation(diag.SecMemberAccess, e.Span,
			fmt.Sprintf("member access %q is not allowed", memberPath(e)))
	default:
		s.violation(diag.SecBadArgument, e.Span,
			"arguments must be string or integer literals")
	}
}

// checkEdge admits chains over bound names only. Inline constructor
// calls in endpoint position would create components as a side effect of
// connecting, which is outside the allowed shapes.
func (s *scanner) checkEdge(e *ast.EdgeStmt) {
	for _, ep := range e.Endpoints {
		switch ep.Kind {
		case ast.ExprIdent:
		case ast.ExprMember:
			s.violation(diag.SecMemberAccess, ep.Span,
				fmt.Sprintf("member access %q is not allowed", memberPath(ep)))
		default:
			s.violation(diag.SecCallNotAllowed, ep.Span,
				"edge endpoints must be bound names")
		}
	}
	s.checkAttrs(e.Attrs)
}

func (s *scanner) checkAttrs(attrs []ast.Attr) {
	for _, attr := range attrs {
		s.checkArg(attr.Value)
	}
}

// memberPath renders a member chain like os.system for findings.
func memberPath(e *ast.Expr) string {
	switch e.Kind {
	case ast.ExprIdent:
		return e.Ident
	case ast.ExprMember:
		return memberPath(e.Member.Recv) + "." + e.Member.Name
	default:
		return "<expr>"
	}
}
