package lexer

import (
	"diagen/internal/diag"
	"diagen/internal/token"
)

// scanOperatorOrPunct scans operators greedily: two-byte sequences first,
// then single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try2('>', '>'):
		return emit(token.Arrow)
	case lx.try2('<', '<'):
		return emit(token.RArrow)
	case lx.try2('-', '-'):
		return emit(token.Link)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '=':
		return emit(token.Assign)
	case '.':
		return emit(token.Dot)
	case ':':
		return emit(token.Colon)
	case ',':
		return emit(token.Comma)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	lx.errLex(diag.LexUnknownChar, sp, "unexpected character "+text)
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
