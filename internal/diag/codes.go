package diag

import "fmt"

// Code identifies a finding class. Codes are grouped by pipeline stage:
// 1xxx lexical, 2xxx syntactic, 3xxx structural and size limits,
// 4xxx security, 5xxx symbol correction, 6xxx execution, 7xxx rendering.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexNewlineInString          Code = 1005

	// Syntactic
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynUnclosedBrace      Code = 2003
	SynUnclosedParen      Code = 2004
	SynUnclosedBracket    Code = 2005
	SynExpectIdentifier   Code = 2006
	SynExpectString       Code = 2007
	SynExpectAttrValue    Code = 2008
	SynDanglingEdgeOp     Code = 2009

	// Structural and size limits
	StructNoDiagram        Code = 3001
	StructDuplicateBinding Code = 3002
	StructEmptyName        Code = 3003
	StructBadDirection     Code = 3004
	StructUnknownAttribute Code = 3005

	SizeTooManyComponents    Code = 3101
	SizeTooManyRelationships Code = 3102

	// Security
	SecForbiddenCall     Code = 4001
	SecMemberAccess      Code = 4002
	SecNestedCall        Code = 4003
	SecUnknownNamespace  Code = 4004
	SecBadArgument       Code = 4005
	SecCallNotAllowed    Code = 4006

	// Symbol correction (informational)
	SymSubstituted Code = 5001
	SymWrapped     Code = 5002

	// Execution
	ExecException Code = 6001
	ExecTimeout   Code = 6002
	ExecCancelled Code = 6003

	// Rendering
	RenderFailed Code = 7001
)

// Category is the stable report-entry kind the orchestration layer consumes.
type Category string

const (
	CategorySyntax        Category = "syntax"
	CategoryStructure     Category = "structure"
	CategorySizeLimit     Category = "size-limit"
	CategoryForbidden     Category = "forbidden-construct"
	CategoryUnknownSymbol Category = "unknown-symbol"
	CategoryExecution     Category = "execution"
	CategoryRender        Category = "render"
	CategoryUnknown       Category = "unknown"
)

// Category maps a code onto the report taxonomy.
func (c Code) Category() Category {
	switch {
	case c >= 1000 && c < 3000:
		return CategorySyntax
	case c >= 3000 && c < 3100:
		return CategoryStructure
	case c >= 3100 && c < 4000:
		return CategorySizeLimit
	case c >= 4000 && c < 5000:
		return CategoryForbidden
	case c >= 5000 && c < 6000:
		return CategoryUnknownSymbol
	case c >= 6000 && c < 7000:
		return CategoryExecution
	case c >= 7000 && c < 8000:
		return CategoryRender
	default:
		return CategoryUnknown
	}
}

func (c Code) String() string {
	return fmt.Sprintf("DG%04d", uint16(c))
}
