// Package ast defines the tagged-variant tree candidate sources parse
// into. Every later stage (validation, scanning, correction, sandboxed
// execution) interprets this representation and nothing else.
package ast

import (
	"diagen/internal/source"
)

// File is one parsed candidate: use declarations followed by diagrams.
type File struct {
	Uses     []Use
	Diagrams []*Diagram
	Span     source.Span
}

// Use is an import-like declaration naming a component namespace.
type Use struct {
	Module string
	Span   source.Span
}

// Diagram is a named root block.
type Diagram struct {
	Name     string
	NameSpan source.Span
	Attrs    []Attr
	Body     []Stmt
	Span     source.Span
}

// Attr is one key/value entry of an attribute list.
type Attr struct {
	Key     string
	KeySpan source.Span
	Value   *Expr
}
