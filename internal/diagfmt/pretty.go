// Package diagfmt renders finding bags for humans and machines.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"diagen/internal/diag"
	"diagen/internal/source"
)

// PrettyOpts configures pretty-printing of findings.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// Pretty writes findings in human-readable form, one block per finding:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    <source line>
//	    ^~~~~
//
// The bag should be sorted beforehand.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, f := range bag.Items() {
		writeFinding(w, f, fs, opts)
	}
	if n := bag.Len(); n > 0 {
		fmt.Fprintf(w, "%d finding(s)\n", n)
	}
}

func writeFinding(w io.Writer, f diag.Finding, fs *source.FileSet, opts PrettyOpts) {
	writeHeader(w, f.Severity, f.Code, f.Message, f.Primary, fs, opts)
	writeContext(w, f.Primary, fs, opts)
	if opts.ShowNotes {
		for _, n := range f.Notes {
			writeNote(w, n, fs, opts)
		}
	}
}

func writeHeader(w io.Writer, sev diag.Severity, code diag.Code, msg string, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	sevText := sev.String()
	codeText := code.String()
	if opts.Color {
		c := severityColor(sev)
		sevText = c.Sprint(sevText)
		codeText = c.Sprint(codeText)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", position(sp, fs), sevText, codeText, msg)
}

func writeNote(w io.Writer, n diag.Note, fs *source.FileSet, opts PrettyOpts) {
	noteText := "note"
	if opts.Color {
		noteText = color.New(color.FgCyan).Sprint(noteText)
	}
	fmt.Fprintf(w, "%s: %s: %s\n", position(n.Span, fs), noteText, n.Msg)
	writeContext(w, n.Span, fs, opts)
}

func position(sp source.Span, fs *source.FileSet) string {
	if fs == nil || sp.Empty() {
		return "<input>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", fs.Get(sp.File).Path, start.Line, start.Col)
}

// writeContext prints the offending line with a caret underline sized by
// display width, so wide runes underline correctly.
func writeContext(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	if fs == nil || sp.Empty() {
		return
	}
	start, end := fs.Resolve(sp)
	line := strings.TrimRight(fs.Get(sp.File).GetLine(start.Line), "\r\n")
	if line == "" {
		return
	}
	expanded := strings.ReplaceAll(line, "\t", "    ")
	fmt.Fprintf(w, "    %s\n", expanded)

	prefix := line[:min(int(start.Col)-1, len(line))]
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))

	span := 1
	if end.Line == start.Line && end.Col > start.Col {
		marked := line[min(int(start.Col)-1, len(line)):min(int(end.Col)-1, len(line))]
		if w := runewidth.StringWidth(marked); w > 0 {
			span = w
		}
	}
	underline := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), underline)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
