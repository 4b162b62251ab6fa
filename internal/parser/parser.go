package parser

import (
	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/lexer"
	"diagen/internal/source"
	"diagen/internal/token"
)

// Options configures one parse.
type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result is the outcome of parsing one candidate.
type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// Parser holds the state for parsing one candidate source.
type Parser struct {
	lx       *lexer.Lexer
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span of the last consumed token, for diagnostics
}

// ParseFile is the entry point for parsing one candidate. It requires an
// already constructed lexer over the candidate's source.File.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, opts Options) Result {
	p := Parser{
		lx:       lx,
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	file := &ast.File{Span: lx.EmptySpan()}
	p.parseItems(file)

	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{File: file, Bag: bag}
}

// parseItems is the top-level loop: use declarations, then diagram blocks.
func (p *Parser) parseItems(file *ast.File) {
	start := p.lx.Peek().Span
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwUse:
			if use, ok := p.parseUse(); ok {
				file.Uses = append(file.Uses, use)
			} else {
				p.resyncTop()
			}
		case token.KwDiagram:
			if d, ok := p.parseDiagram(); ok {
				file.Diagrams = append(file.Diagrams, d)
			} else {
				p.resyncTop()
			}
		default:
			p.err(diag.SynUnexpectedTopLevel, "expected 'use' or 'diagram' at top level, found "+describe(p.lx.Peek()))
			p.resyncTop()
		}
	}
	file.Span = start.Cover(p.lastSpan)
}

// parseUse parses `use ident`.
func (p *Parser) parseUse() (ast.Use, bool) {
	kw := p.advance() // 'use'
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name after 'use'")
	if !ok {
		return ast.Use{}, false
	}
	return ast.Use{Module: name.Text, Span: kw.Span.Cover(name.Span)}, true
}

// parseDiagram parses `diagram "name" [attrs] { stmts }`.
func (p *Parser) parseDiagram() (*ast.Diagram, bool) {
	kw := p.advance() // 'diagram'

	nameTok, ok := p.expect(token.StringLit, diag.SynExpectString, "expected diagram name string")
	if !ok {
		return nil, false
	}

	d := &ast.Diagram{
		Name:     unquote(nameTok.Text),
		NameSpan: nameTok.Span,
	}

	if p.at(token.LBracket) {
		attrs, ok := p.parseAttrList()
		if !ok {
			return nil, false
		}
		d.Attrs = attrs
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	d.Body = body
	d.Span = kw.Span.Cover(p.lastSpan)
	return d, true
}

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() ([]ast.Stmt, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return nil, false
	}

	var body []ast.Stmt
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedBrace, "unclosed block: expected '}'")
			return body, false
		}
		stmt, ok := p.parseStmt()
		if !ok {
			if !p.resyncStmt() {
				return body, false
			}
			continue
		}
		body = append(body, stmt)
	}
	p.advance() // '}'
	return body, true
}

// resyncTop skips ahead to the next top-level keyword.
func (p *Parser) resyncTop() {
	for {
		switch p.lx.Peek().Kind {
		case token.EOF, token.KwUse, token.KwDiagram:
			return
		default:
			p.advance()
		}
	}
}

// resyncStmt skips to a plausible statement boundary inside a block.
// Returns false when EOF is reached first.
func (p *Parser) resyncStmt() bool {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return false
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return true
			}
			depth--
		case token.Ident, token.KwCluster:
			if depth == 0 {
				return true
			}
		}
		p.advance()
	}
}
