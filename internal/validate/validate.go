// Package validate checks a parsed candidate against structural rules
// and size limits before any security scanning or execution happens.
// Validation is a pure function over the tree: running it twice on the
// same input produces the same findings and the same counts.
package validate

import (
	"fmt"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/source"
)

// Limits bounds how large a single candidate may grow. Zero means the
// dimension is unbounded.
type Limits struct {
	MaxComponents    int
	MaxRelationships int
	// CountClusters includes cluster blocks in the component total.
	CountClusters bool
}

// Report carries the counts validation derived. Counts are reported even
// when findings were emitted so feedback can cite concrete numbers.
type Report struct {
	Diagrams      int
	Components    int
	Relationships int
	Clusters      int
}

var directions = map[string]struct{}{
	"TB": {}, "BT": {}, "LR": {}, "RL": {},
}

var diagramAttrs = map[string]struct{}{
	"direction": {}, "filename": {}, "outformat": {}, "show": {},
}

var edgeAttrs = map[string]struct{}{
	"label": {}, "color": {}, "style": {},
}

type checker struct {
	rep    diag.Reporter
	report Report
}

// Check validates one candidate file. Findings go through rep; the
// returned report holds the totals across all diagrams in the file.
func Check(file *ast.File, lim Limits, rep diag.Reporter) Report {
	c := checker{rep: rep}

	if len(file.Diagrams) == 0 {
		diag.ReportError(rep, diag.StructNoDiagram, file.Span,
			"source contains no diagram block")
		return c.report
	}

	for _, d := range file.Diagrams {
		c.checkDiagram(d)
	}

	total := c.report.Components
	if lim.CountClusters {
		total += c.report.Clusters
	}
	if lim.MaxComponents > 0 && total > lim.MaxComponents {
		diag.ReportError(rep, diag.SizeTooManyComponents, file.Span,
			fmt.Sprintf("too many components: %d exceeds the limit of %d", total, lim.MaxComponents))
	}
	if lim.MaxRelationships > 0 && c.report.Relationships > lim.MaxRelationships {
		diag.ReportError(rep, diag.SizeTooManyRelationships, file.Span,
			fmt.Sprintf("too many relationships: %d exceeds the limit of %d", c.report.Relationships, lim.MaxRelationships))
	}
	return c.report
}

func (c *checker) checkDiagram(d *ast.Diagram) {
	c.report.Diagrams++

	if d.Name == "" {
		diag.ReportError(c.rep, diag.StructEmptyName, d.NameSpan,
			"diagram name must not be empty")
	}
	for _, attr := range d.Attrs {
		c.checkDiagramAttr(attr)
	}

	// Bindings share one flat scope per diagram, clusters included.
	bound := map[string]source.Span{}
	c.checkBody(d.Body, bound)
}

func (c *checker) checkDiagramAttr(attr ast.Attr) {
	if _, ok := diagramAttrs[attr.Key]; !ok {
		diag.ReportWarning(c.rep, diag.StructUnknownAttribute, attr.KeySpan,
			fmt.Sprintf("unknown diagram attribute %q", attr.Key))
		return
	}
	if attr.Key != "direction" {
		return
	}
	if attr.Value == nil || attr.Value.Kind != ast.ExprString {
		diag.ReportError(c.rep, diag.StructBadDirection, attr.KeySpan,
			"direction must be a string")
		return
	}
	if _, ok := directions[attr.Value.Str]; !ok {
		diag.ReportError(c.rep, diag.StructBadDirection, attr.Value.Span,
			fmt.Sprintf("invalid direction %q: must be one of TB, BT, LR, RL", attr.Value.Str))
	}
}

func (c *checker) checkBody(body []ast.Stmt, bound map[string]source.Span) {
	for i := range body {
		st := &body[i]
		switch st.Kind {
		case ast.StmtBind:
			c.checkBind(st, bound)
		case ast.StmtExpr:
			c.countExpr(st.Expr)
		case ast.StmtCluster:
			c.report.Clusters++
			if st.Cluster.Label == "" {
				diag.ReportError(c.rep, diag.StructEmptyName, st.Cluster.LabelSpan,
					"cluster label must not be empty")
			}
			c.checkBody(st.Cluster.Body, bound)
		case ast.StmtEdge:
			c.checkEdge(st.Edge)
		}
	}
}

func (c *checker) checkBind(st *ast.Stmt, bound map[string]source.Span) {
	b := st.Bind
	if prev, ok := bound[b.Name]; ok {
		f := diag.NewError(diag.StructDuplicateBinding, b.NameSpan,
			fmt.Sprintf("name %q is already bound", b.Name)).
			WithNote(prev, "previous binding is here")
		c.rep.Report(f.Code, f.Severity, f.Primary, f.Message, f.Notes)
	} else {
		bound[b.Name] = b.NameSpan
	}
	c.countExpr(b.Value)
}

func (c *checker) checkEdge(e *ast.EdgeStmt) {
	c.report.Relationships += len(e.Ops)
	for _, ep := range e.Endpoints {
		c.countExpr(ep)
	}
	for _, attr := range e.Attrs {
		if _, ok := edgeAttrs[attr.Key]; !ok {
			diag.ReportWarning(c.rep, diag.StructUnknownAttribute, attr.KeySpan,
				fmt.Sprintf("unknown edge attribute %q", attr.Key))
		}
	}
}

// countExpr counts every constructor call in the expression, including
// calls nested in argument position. Nesting is a security concern, not
// a structural one, so it only contributes to the size total here.
func (c *checker) countExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprCall:
		c.report.Components++
		for _, arg := range e.Call.Args {
			c.countExpr(arg.Value)
		}
	case ast.ExprMember:
		c.countExpr(e.Member.Recv)
	}
}
