package lexer

import (
	"diagen/internal/diag"
	"diagen/internal/source"
)

// Options configures one Lexer instance.
type Options struct {
	// Reporter receives lexical findings. May be nil: errors are then
	// dropped, but lexing continues either way.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
