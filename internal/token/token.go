package token

import (
	"diagen/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a string or integer literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit:
		return true
	default:
		return false
	}
}

// IsEdgeOp reports whether the token is one of the connection operators.
func (t Token) IsEdgeOp() bool {
	switch t.Kind {
	case Arrow, RArrow, Link:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a grammar keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwDiagram, KwCluster, KwUse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
