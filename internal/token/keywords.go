package token

var keywords = map[string]Kind{
	"diagram": KwDiagram,
	"cluster": KwCluster,
	"use":     KwUse,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive: only the lowercase spellings are recognized,
// so component identifiers like "Cluster" stay ordinary identifiers.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
