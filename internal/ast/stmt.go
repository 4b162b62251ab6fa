package ast

import (
	"diagen/internal/source"
)

// StmtKind tags the statement variants.
type StmtKind uint8

const (
	// StmtBind is `ident = Call(...)`.
	StmtBind StmtKind = iota
	// StmtExpr is a bare expression statement, normally a constructor call.
	StmtExpr
	// StmtCluster is `cluster "label" { ... }`.
	StmtCluster
	// StmtEdge is a connection chain `a >> b -- c [attrs]`.
	StmtEdge
)

// Stmt is a tagged statement variant. Exactly the payload matching Kind is set.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Bind    *BindStmt
	Expr    *Expr
	Cluster *ClusterStmt
	Edge    *EdgeStmt
}

// BindStmt binds a name to a constructor call.
type BindStmt struct {
	Name     string
	NameSpan source.Span
	Value    *Expr
}

// ClusterStmt groups statements under a label. Clusters nest.
type ClusterStmt struct {
	Label     string
	LabelSpan source.Span
	Attrs     []Attr
	Body      []Stmt
}

// EdgeOp is the direction of one link in an edge chain.
type EdgeOp uint8

const (
	// EdgeForward is `>>`.
	EdgeForward EdgeOp = iota
	// EdgeReverse is `<<`.
	EdgeReverse
	// EdgeUndirected is `--`.
	EdgeUndirected
)

func (op EdgeOp) String() string {
	switch op {
	case EdgeForward:
		return ">>"
	case EdgeReverse:
		return "<<"
	case EdgeUndirected:
		return "--"
	}
	return "?"
}

// EdgeStmt is a chain of endpoints joined by edge operators.
// len(Ops) == len(Endpoints)-1.
type EdgeStmt struct {
	Endpoints []*Expr
	Ops       []EdgeOp
	Attrs     []Attr
}
