package parser

import (
	"strconv"
	"strings"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/token"
)

// parsePrimary parses an atom followed by any number of member-access and
// call suffixes. Member access and nested calls are grammatical on purpose:
// the security scanner rejects them with precise findings instead of the
// parser producing a vague syntax error.
func (p *Parser) parsePrimary() (*ast.Expr, bool) {
	atom, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	return p.parseSuffixes(atom)
}

func (p *Parser) parseAtom() (*ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Ident: tok.Text}, true
	case token.StringLit:
		p.advance()
		return &ast.Expr{Kind: ast.ExprString, Span: tok.Span, Str: unquote(tok.Text)}, true
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errAt(diag.LexBadNumber, tok.Span, "integer literal out of range")
			return nil, false
		}
		return &ast.Expr{Kind: ast.ExprInt, Span: tok.Span, Int: v}, true
	default:
		p.err(diag.SynUnexpectedToken, "expected expression, found "+describe(tok))
		p.advance()
		return nil, false
	}
}

// parseCallSuffix parses `(arg, ...)` applied to callee.
func (p *Parser) parseCallSuffix(callee *ast.Expr) (*ast.Expr, bool) {
	p.advance() // '('
	call := &ast.CallExpr{Callee: callee}

	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedParen, "unclosed call: expected ')'")
			return nil, false
		}

		arg, ok := p.parseArg()
		if !ok {
			return nil, false
		}
		call.Args = append(call.Args, arg)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RParen) {
			p.err(diag.SynUnclosedParen, "expected ',' or ')' in argument list")
			return nil, false
		}
	}
	closing := p.advance() // ')'

	return &ast.Expr{
		Kind: ast.ExprCall,
		Span: callee.Span.Cover(closing.Span),
		Call: call,
	}, true
}

// parseArg parses `name: value` or a bare value.
func (p *Parser) parseArg() (ast.Arg, bool) {
	if p.at(token.Ident) {
		ident := p.lx.Peek()
		p.advance()
		if p.at(token.Colon) {
			p.advance()
			value, ok := p.parsePrimary()
			if !ok {
				return ast.Arg{}, false
			}
			return ast.Arg{Name: ident.Text, NameSpan: ident.Span, Value: value}, true
		}
		// Bare identifier argument: rebuild it as a primary so call and
		// member suffixes still attach.
		atom := &ast.Expr{Kind: ast.ExprIdent, Span: ident.Span, Ident: ident.Text}
		expr, ok := p.parseSuffixes(atom)
		if !ok {
			return ast.Arg{}, false
		}
		return ast.Arg{Value: expr}, true
	}

	value, ok := p.parsePrimary()
	if !ok {
		return ast.Arg{}, false
	}
	return ast.Arg{Value: value}, true
}

// parseSuffixes applies member/call suffixes to an already-consumed atom.
func (p *Parser) parseSuffixes(atom *ast.Expr) (*ast.Expr, bool) {
	for {
		switch p.lx.Peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
			if !ok {
				return nil, false
			}
			atom = &ast.Expr{
				Kind: ast.ExprMember,
				Span: atom.Span.Cover(name.Span),
				Member: &ast.MemberExpr{
					Recv:     atom,
					Name:     name.Text,
					NameSpan: name.Span,
				},
			}
		case token.LParen:
			call, ok := p.parseCallSuffix(atom)
			if !ok {
				return nil, false
			}
			atom = call
		default:
			return atom, true
		}
	}
}

// unquote strips the surrounding quotes and decodes the escapes the lexer
// accepted. Unknown escapes decode to the escaped byte itself.
func unquote(text string) string {
	if len(text) < 2 || text[0] != '"' {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
