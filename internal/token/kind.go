package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwDiagram represents the 'diagram' keyword.
	KwDiagram // diagram
	// KwCluster represents the 'cluster' keyword.
	KwCluster // cluster
	// KwUse represents the 'use' keyword.
	KwUse // use

	// IntLit represents an integer literal token.
	IntLit
	// StringLit represents a string literal token.
	StringLit

	// Assign represents the assign operator token.
	Assign // =
	// Arrow represents the forward-edge operator token.
	Arrow // >>
	// RArrow represents the reverse-edge operator token.
	RArrow // <<
	// Link represents the undirected-edge operator token.
	Link // --
	// Dot represents the member-access operator token.
	Dot // .
	// Colon represents the colon operator token.
	Colon // :
	// Comma represents the comma operator token.
	Comma // ,
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case KwDiagram:
		return "diagram"
	case KwCluster:
		return "cluster"
	case KwUse:
		return "use"
	case IntLit:
		return "int"
	case StringLit:
		return "string"
	case Assign:
		return "="
	case Arrow:
		return ">>"
	case RArrow:
		return "<<"
	case Link:
		return "--"
	case Dot:
		return "."
	case Colon:
		return ":"
	case Comma:
		return ","
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	}
	return "unknown"
}
