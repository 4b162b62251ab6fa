package diagfmt

import (
	"encoding/json"
	"io"

	"diagen/internal/diag"
	"diagen/internal/source"
)

// LocationJSON is a finding position in JSON form.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary note in JSON form.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FindingJSON is one finding in JSON form.
type FindingJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Category string       `json:"category"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FindingsOutput is the root of the JSON report.
type FindingsOutput struct {
	Findings []FindingJSON `json:"findings"`
	Count    int           `json:"count"`
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	// Max truncates the output, not the bag. Zero means no limit.
	Max int
}

// BuildOutput flattens a bag into the JSON structure without serializing.
func BuildOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) FindingsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}

	findings := make([]FindingJSON, 0, n)
	for i := range n {
		f := items[i]
		fj := FindingJSON{
			Severity: f.Severity.String(),
			Code:     f.Code.String(),
			Category: string(f.Code.Category()),
			Message:  f.Message,
			Location: makeLocation(f.Primary, fs, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, note := range f.Notes {
				fj.Notes = append(fj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.IncludePositions),
				})
			}
		}
		findings = append(findings, fj)
	}
	return FindingsOutput{Findings: findings, Count: bag.Len()}
}

// JSON writes the bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := BuildOutput(bag, fs, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeLocation(sp source.Span, fs *source.FileSet, includePositions bool) LocationJSON {
	loc := LocationJSON{StartByte: sp.Start, EndByte: sp.End}
	if fs == nil {
		return loc
	}
	loc.File = fs.Get(sp.File).Path
	if includePositions && !sp.Empty() {
		start, end := fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
