// Package correct rewrites unknown constructor names so the sandbox
// only ever sees catalog components. Known wrong spellings map onto
// their canonical entry; everything else is wrapped in the Generic
// placeholder with the original name preserved as its label. Every
// rewrite is logged as an informational finding and returned in the
// correction list so feedback and reports can show what changed.
package correct

import (
	"fmt"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/registry"
	"diagen/internal/source"
)

// Kind distinguishes the two rewrite forms.
type Kind uint8

const (
	// Substituted means the name mapped onto a canonical component.
	Substituted Kind = iota
	// Wrapped means the name fell through to the Generic placeholder.
	Wrapped
)

func (k Kind) String() string {
	if k == Substituted {
		return "substituted"
	}
	return "wrapped"
}

// Correction records one rewrite applied to the tree.
type Correction struct {
	Kind        Kind
	Original    string
	Replacement string
	Span        source.Span
}

// Apply rewrites file in place and returns the corrections in source
// order. Applying it again to the result is a no-op: canonical names
// and the placeholder are always left untouched.
func Apply(file *ast.File, reg *registry.Registry, rep diag.Reporter) []Correction {
	c := corrector{reg: reg, rep: rep}
	for _, d := range file.Diagrams {
		c.walkBody(d.Body)
	}
	return c.log
}

type corrector struct {
	reg *registry.Registry
	rep diag.Reporter
	log []Correction
}

func (c *corrector) walkBody(body []ast.Stmt) {
	for i := range body {
		st := &body[i]
		switch st.Kind {
		case ast.StmtBind:
			c.walkExpr(st.Bind.Value)
		case ast.StmtExpr:
			c.walkExpr(st.Expr)
		case ast.StmtCluster:
			c.walkBody(st.Cluster.Body)
		case ast.StmtEdge:
			for _, ep := range st.Edge.Endpoints {
				c.walkExpr(ep)
			}
		}
	}
}

func (c *corrector) walkExpr(e *ast.Expr) {
	if e == nil || e.Kind != ast.ExprCall {
		return
	}
	for _, arg := range e.Call.Args {
		c.walkExpr(arg.Value)
	}

	callee := e.Call.Callee
	if callee == nil || callee.Kind != ast.ExprIdent {
		return
	}
	name := callee.Ident
	if c.reg.HasComponent(name) {
		return
	}
	// A forbidden name never reaches the corrector on the normal path;
	// leave it alone rather than launder it into a placeholder.
	if _, forbidden := c.reg.ForbiddenCapability(name); forbidden {
		return
	}

	if canon, ok := c.reg.Substitute(name); ok {
		callee.Ident = canon
		c.record(Substituted, name, canon, callee.Span)
		return
	}
	c.wrap(e, name)
}

// wrap turns Unknown("label", ...) into Generic("label", ...), falling
// back to the original name as the label when the call had none.
func (c *corrector) wrap(e *ast.Expr, name string) {
	callee := e.Call.Callee
	callee.Ident = registry.Placeholder

	if _, ok := e.FirstStringArg(); !ok {
		label := &ast.Expr{Kind: ast.ExprString, Str: name, Span: callee.Span}
		e.Call.Args = append([]ast.Arg{{Value: label}}, e.Call.Args...)
	}
	c.record(Wrapped, name, registry.Placeholder, callee.Span)
}

func (c *corrector) record(kind Kind, original, replacement string, sp source.Span) {
	c.log = append(c.log, Correction{
		Kind: kind, Original: original, Replacement: replacement, Span: sp,
	})
	code := diag.SymSubstituted
	msg := fmt.Sprintf("unknown component %q replaced with %q", original, replacement)
	if kind == Wrapped {
		code = diag.SymWrapped
		msg = fmt.Sprintf("unknown component %q wrapped in %q placeholder", original, replacement)
	}
	diag.ReportInfo(c.rep, code, sp, msg)
}
