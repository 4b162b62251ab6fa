// Package sandbox interprets a corrected tree into materialized diagram
// graphs. The interpreter resolves names against a namespace containing
// exactly the registry constructors and the names the candidate itself
// binds; there is no ambient resolution of any kind. Execution honors
// the context deadline, recovers interpreter panics, and converts every
// failure into a structured finding before returning.
package sandbox

import (
	"context"
	"errors"
	"fmt"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/graph"
	"diagen/internal/registry"
	"diagen/internal/source"
)

// Error is one execution failure: what happened and where.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Execute interprets every diagram in file. On failure it reports a
// finding through rep and returns the error; the partial graphs built so
// far are discarded. Deadline expiry and cancellation get distinct
// finding codes so feedback can tell a slow candidate from an aborted run.
func Execute(ctx context.Context, file *ast.File, reg *registry.Registry, rep diag.Reporter) (diagrams []*graph.Diagram, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{
				Code: diag.ExecException,
				Msg:  fmt.Sprintf("execution failed: %v", r),
			}
			diagrams = nil
		}
		var ex *Error
		if errors.As(err, &ex) {
			diag.ReportError(rep, ex.Code, ex.Span, ex.Msg)
		}
	}()

	it := interp{ctx: ctx, reg: reg}
	for _, d := range file.Diagrams {
		g, err := it.diagram(d)
		if err != nil {
			return nil, err
		}
		diagrams = append(diagrams, g)
	}
	return diagrams, nil
}

type interp struct {
	ctx context.Context
	reg *registry.Registry
}

func (it *interp) diagram(d *ast.Diagram) (*graph.Diagram, error) {
	g := graph.New(d.Name)
	for _, attr := range d.Attrs {
		if attr.Key == "direction" && attr.Value != nil && attr.Value.Kind == ast.ExprString {
			g.Direction = attr.Value.Str
		}
	}
	env := map[string]*graph.Node{}
	if err := it.body(g, d.Body, nil, env); err != nil {
		return nil, err
	}
	return g, nil
}

func (it *interp) body(g *graph.Diagram, body []ast.Stmt, cluster *graph.Cluster, env map[string]*graph.Node) error {
	for i := range body {
		if err := ctxError(it.ctx); err != nil {
			return err
		}
		st := &body[i]
		switch st.Kind {
		case ast.StmtBind:
			if _, ok := env[st.Bind.Name]; ok {
				return &Error{
					Code: diag.ExecException,
					Span: st.Bind.NameSpan,
					Msg:  fmt.Sprintf("name %q is already bound", st.Bind.Name),
				}
			}
			node, err := it.construct(g, st.Bind.Value, cluster)
			if err != nil {
				return err
			}
			env[st.Bind.Name] = node
		case ast.StmtExpr:
			if _, err := it.construct(g, st.Expr, cluster); err != nil {
				return err
			}
		case ast.StmtCluster:
			child := g.AddCluster(st.Cluster.Label, cluster)
			if err := it.body(g, st.Cluster.Body, child, env); err != nil {
				return err
			}
		case ast.StmtEdge:
			if err := it.edges(g, st.Edge, env); err != nil {
				return err
			}
		}
	}
	return nil
}

// construct evaluates a constructor call into a node. At most one
// positional argument is accepted and it must be the string label; named
// arguments must be literals and are currently ignored.
func (it *interp) construct(g *graph.Diagram, e *ast.Expr, cluster *graph.Cluster) (*graph.Node, error) {
	if e == nil || e.Kind != ast.ExprCall {
		return nil, &Error{
			Code: diag.ExecException,
			Span: exprSpan(e),
			Msg:  "expected a constructor call",
		}
	}
	name, ok := e.CalleeIdent()
	if !ok {
		return nil, &Error{
			Code: diag.ExecException,
			Span: e.Span,
			Msg:  "callee is not a constructor name",
		}
	}
	if !it.reg.HasComponent(name) {
		return nil, &Error{
			Code: diag.ExecException,
			Span: e.Call.Callee.Span,
			Msg:  fmt.Sprintf("name %q is not defined", name),
		}
	}

	label := name
	positional := 0
	for _, arg := range e.Call.Args {
		if arg.Value == nil {
			continue
		}
		if arg.Name != "" {
			if arg.Value.Kind != ast.ExprString && arg.Value.Kind != ast.ExprInt {
				return nil, &Error{
					Code: diag.ExecException,
					Span: arg.Value.Span,
					Msg:  fmt.Sprintf("argument %q must be a literal", arg.Name),
				}
			}
			continue
		}
		positional++
		if positional > 1 {
			return nil, &Error{
				Code: diag.ExecException,
				Span: arg.Value.Span,
				Msg:  fmt.Sprintf("%s takes one positional argument, the label", name),
			}
		}
		if arg.Value.Kind != ast.ExprString {
			return nil, &Error{
				Code: diag.ExecException,
				Span: arg.Value.Span,
				Msg:  "label must be a string",
			}
		}
		label = arg.Value.Str
	}
	return g.AddNode(name, label, cluster), nil
}

func (it *interp) edges(g *graph.Diagram, e *ast.EdgeStmt, env map[string]*graph.Node) error {
	nodes := make([]*graph.Node, len(e.Endpoints))
	for i, ep := range e.Endpoints {
		if ep.Kind != ast.ExprIdent {
			return &Error{
				Code: diag.ExecException,
				Span: ep.Span,
				Msg:  "edge endpoint must be a bound name",
			}
		}
		node, ok := env[ep.Ident]
		if !ok {
			return &Error{
				Code: diag.ExecException,
				Span: ep.Span,
				Msg:  fmt.Sprintf("name %q is not bound to a component", ep.Ident),
			}
		}
		nodes[i] = node
	}

	var label, color, style string
	for _, attr := range e.Attrs {
		if attr.Value == nil || attr.Value.Kind != ast.ExprString {
			continue
		}
		switch attr.Key {
		case "label":
			label = attr.Value.Str
		case "color":
			color = attr.Value.Str
		case "style":
			style = attr.Value.Str
		}
	}

	for i, op := range e.Ops {
		edge := graph.Edge{
			From: nodes[i], To: nodes[i+1],
			Label: label, Color: color, Style: style,
		}
		switch op {
		case ast.EdgeReverse:
			edge.From, edge.To = edge.To, edge.From
		case ast.EdgeUndirected:
			edge.Dir = graph.DirUndirected
		}
		g.AddEdge(edge)
	}
	return nil
}

// ctxError classifies a spent context into the matching finding code.
func ctxError(ctx context.Context) error {
	switch {
	case ctx == nil:
		return nil
	case ctx.Err() == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Code: diag.ExecTimeout, Msg: "execution timed out"}
	default:
		return &Error{Code: diag.ExecCancelled, Msg: "execution cancelled"}
	}
}

func exprSpan(e *ast.Expr) source.Span {
	if e == nil {
		return source.Span{}
	}
	return e.Span
}
