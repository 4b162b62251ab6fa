package lexer

import (
	"diagen/internal/diag"
	"diagen/internal/token"
)

// scanNumber scans a decimal integer literal. The diagram grammar has no
// floats or radix prefixes; a digit run flowing into identifier characters
// is a malformed number.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if b := lx.cursor.Peek(); isIdentContinueByte(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal "+text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
