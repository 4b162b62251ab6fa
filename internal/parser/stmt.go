package parser

import (
	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/token"
)

// parseStmt dispatches on the first token of a statement. On failure at
// least one token has been consumed, so callers can resync safely.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwCluster:
		return p.parseClusterStmt()
	case token.Ident, token.StringLit, token.IntLit:
		return p.parseExprishStmt()
	default:
		p.err(diag.SynUnexpectedToken, "expected statement, found "+describe(p.lx.Peek()))
		p.advance()
		return ast.Stmt{}, false
	}
}

// parseClusterStmt parses `cluster "label" [attrs] { stmts }`.
func (p *Parser) parseClusterStmt() (ast.Stmt, bool) {
	kw := p.advance() // 'cluster'

	labelTok, ok := p.expect(token.StringLit, diag.SynExpectString, "expected cluster label string")
	if !ok {
		return ast.Stmt{}, false
	}

	cluster := &ast.ClusterStmt{
		Label:     unquote(labelTok.Text),
		LabelSpan: labelTok.Span,
	}

	if p.at(token.LBracket) {
		attrs, ok := p.parseAttrList()
		if !ok {
			return ast.Stmt{}, false
		}
		cluster.Attrs = attrs
	}

	body, ok := p.parseBlock()
	if !ok {
		return ast.Stmt{}, false
	}
	cluster.Body = body

	return ast.Stmt{
		Kind:    ast.StmtCluster,
		Span:    kw.Span.Cover(p.lastSpan),
		Cluster: cluster,
	}, true
}

// parseExprishStmt parses the statements that start with an expression:
// binding, bare constructor call, or edge chain.
func (p *Parser) parseExprishStmt() (ast.Stmt, bool) {
	first, ok := p.parsePrimary()
	if !ok {
		return ast.Stmt{}, false
	}
	start := first.Span

	switch {
	case p.at(token.Assign):
		p.advance() // '='
		if first.Kind != ast.ExprIdent {
			p.errAt(diag.SynUnexpectedToken, first.Span, "binding target must be a plain identifier")
			return ast.Stmt{}, false
		}
		value, ok := p.parsePrimary()
		if !ok {
			return ast.Stmt{}, false
		}
		return ast.Stmt{
			Kind: ast.StmtBind,
			Span: start.Cover(p.lastSpan),
			Bind: &ast.BindStmt{
				Name:     first.Ident,
				NameSpan: first.Span,
				Value:    value,
			},
		}, true

	case p.lx.Peek().IsEdgeOp():
		return p.parseEdgeChain(first)

	default:
		return ast.Stmt{
			Kind: ast.StmtExpr,
			Span: start.Cover(p.lastSpan),
			Expr: first,
		}, true
	}
}

// parseEdgeChain parses `first (op endpoint)+ [attrs]`.
func (p *Parser) parseEdgeChain(first *ast.Expr) (ast.Stmt, bool) {
	edge := &ast.EdgeStmt{Endpoints: []*ast.Expr{first}}
	start := first.Span

	for p.lx.Peek().IsEdgeOp() {
		opTok := p.advance()
		var op ast.EdgeOp
		switch opTok.Kind {
		case token.Arrow:
			op = ast.EdgeForward
		case token.RArrow:
			op = ast.EdgeReverse
		case token.Link:
			op = ast.EdgeUndirected
		}

		endpoint, ok := p.parsePrimary()
		if !ok {
			p.errAt(diag.SynDanglingEdgeOp, opTok.Span, "edge operator without a right-hand endpoint")
			return ast.Stmt{}, false
		}
		edge.Ops = append(edge.Ops, op)
		edge.Endpoints = append(edge.Endpoints, endpoint)
	}

	if p.at(token.LBracket) {
		attrs, ok := p.parseAttrList()
		if !ok {
			return ast.Stmt{}, false
		}
		edge.Attrs = attrs
	}

	return ast.Stmt{
		Kind: ast.StmtEdge,
		Span: start.Cover(p.lastSpan),
		Edge: edge,
	}, true
}
