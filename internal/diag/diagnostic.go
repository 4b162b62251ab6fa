package diag

import (
	"diagen/internal/source"
)

// Note attaches secondary context to a finding.
type Note struct {
	Span source.Span
	Msg  string
}

// Finding is one report entry: what went wrong (or was corrected), where,
// and how severe it is.
type Finding struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New constructs a finding.
func New(sev Severity, code Code, primary source.Span, msg string) Finding {
	return Finding{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is a shortcut for SevError findings.
func NewError(code Code, primary source.Span, msg string) Finding {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of the finding with an extra note.
func (f Finding) WithNote(sp source.Span, msg string) Finding {
	f.Notes = append(f.Notes, Note{Span: sp, Msg: msg})
	return f
}
