package parser

import (
	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/token"
)

// parseAttrList parses `[ key: value, ... ]`. Values parse as full
// expressions; whether a value shape is acceptable is a scanner concern,
// not a grammar one.
func (p *Parser) parseAttrList() ([]ast.Attr, bool) {
	p.advance() // '['

	var attrs []ast.Attr
	for !p.at(token.RBracket) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedBracket, "unclosed attribute list: expected ']'")
			return nil, false
		}

		key, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after attribute name"); !ok {
			return nil, false
		}

		value, ok := p.parseAttrValue()
		if !ok {
			return nil, false
		}
		attrs = append(attrs, ast.Attr{Key: key.Text, KeySpan: key.Span, Value: value})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBracket) {
			p.err(diag.SynUnclosedBracket, "expected ',' or ']' in attribute list")
			return nil, false
		}
	}
	p.advance() // ']'
	return attrs, true
}

func (p *Parser) parseAttrValue() (*ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.StringLit, token.IntLit, token.Ident:
		return p.parsePrimary()
	default:
		p.err(diag.SynExpectAttrValue, "expected attribute value, found "+describe(tok))
		p.advance()
		return nil, false
	}
}
