package correct

import (
	"bytes"
	"strconv"
	"strings"

	"diagen/internal/ast"
)

// Print renders a tree back to source text. The output parses to an
// equivalent tree, so the corrected form can be re-checked and stored
// alongside the findings.
func Print(file *ast.File) []byte {
	var p printer
	for _, use := range file.Uses {
		p.line(0, "use "+use.Module)
	}
	for i, d := range file.Diagrams {
		if len(file.Uses) > 0 || i > 0 {
			p.buf.WriteByte('\n')
		}
		p.diagram(d)
	}
	return p.buf.Bytes()
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) line(depth int, s string) {
	p.buf.WriteString(strings.Repeat("    ", depth))
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) diagram(d *ast.Diagram) {
	head := "diagram " + quote(d.Name)
	if a := attrList(d.Attrs); a != "" {
		head += " " + a
	}
	p.line(0, head+" {")
	p.body(1, d.Body)
	p.line(0, "}")
}

func (p *printer) body(depth int, body []ast.Stmt) {
	for i := range body {
		st := &body[i]
		switch st.Kind {
		case ast.StmtBind:
			p.line(depth, st.Bind.Name+" = "+exprString(st.Bind.Value))
		case ast.StmtExpr:
			p.line(depth, exprString(st.Expr))
		case ast.StmtCluster:
			head := "cluster " + quote(st.Cluster.Label)
			if a := attrList(st.Cluster.Attrs); a != "" {
				head += " " + a
			}
			p.line(depth, head+" {")
			p.body(depth+1, st.Cluster.Body)
			p.line(depth, "}")
		case ast.StmtEdge:
			p.line(depth, edgeString(st.Edge))
		}
	}
}

func edgeString(e *ast.EdgeStmt) string {
	var b strings.Builder
	for i, ep := range e.Endpoints {
		if i > 0 {
			b.WriteString(" " + e.Ops[i-1].String() + " ")
		}
		b.WriteString(exprString(ep))
	}
	if a := attrList(e.Attrs); a != "" {
		b.WriteString(" " + a)
	}
	return b.String()
}

func attrList(attrs []ast.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		parts = append(parts, attr.Key+": "+exprString(attr.Value))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func exprString(e *ast.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ast.ExprIdent:
		return e.Ident
	case ast.ExprString:
		return quote(e.Str)
	case ast.ExprInt:
		return strconv.FormatInt(e.Int, 10)
	case ast.ExprMember:
		return exprString(e.Member.Recv) + "." + e.Member.Name
	case ast.ExprCall:
		parts := make([]string, 0, len(e.Call.Args))
		for _, arg := range e.Call.Args {
			s := exprString(arg.Value)
			if arg.Name != "" {
				s = arg.Name + ": " + s
			}
			parts = append(parts, s)
		}
		return exprString(e.Call.Callee) + "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
