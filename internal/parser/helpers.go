package parser

import (
	"diagen/internal/diag"
	"diagen/internal/source"
	"diagen/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// diagSpan picks the best span for a diagnostic: at EOF with an empty
// lookahead span, the position just after the last consumed token reads
// better than 0:0.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Empty() && peek.Span.Start == 0 {
		if p.lastSpan.End > 0 {
			return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
		}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns (invalid, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

// err reports an error at the current position.
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

// errAt reports an error at an explicit span.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if !p.opts.Enough() {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

// describe renders a token for an error message.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return "'" + tok.Text + "'"
	default:
		if tok.Text != "" {
			return "'" + tok.Text + "'"
		}
		return tok.Kind.String()
	}
}
