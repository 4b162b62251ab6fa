package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"diagen/internal/correct"
	"diagen/internal/diag"
	"diagen/internal/source"
	"diagen/internal/validate"
)

// ReportSchema versions the serialized report layout. Bump it whenever a
// field changes meaning so stale cache entries read as misses.
const ReportSchema uint16 = 1

// Entry is one finding in source-independent form: positions are
// line:col, the excerpt is the offending source line.
type Entry struct {
	Code     string
	Category string
	Severity string
	Line     uint32
	Col      uint32
	Message  string
	Excerpt  string
}

// Correction is one name rewrite in report form.
type Correction struct {
	Original    string
	Replacement string
	Rule        string
}

// Report is the full outcome of checking one candidate. It is produced
// on every attempt, accepted or not, and is stable for identical input.
type Report struct {
	Schema     uint16
	SourceHash string
	Accepted   bool

	Diagrams      int
	Components    int
	Relationships int
	Clusters      int

	Entries         []Entry
	Corrections     []Correction
	CorrectedSource string
}

// SourceHash is the candidate identity: hex SHA-256 of the raw text.
func SourceHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// NewReport flattens a finding bag and validation counts into a report.
// The bag is sorted first so identical inputs produce identical reports.
func NewReport(fs *source.FileSet, bag *diag.Bag, counts validate.Report, corrections []correct.Correction, hash string) Report {
	bag.Sort()
	r := Report{
		Schema:        ReportSchema,
		SourceHash:    hash,
		Accepted:      !bag.HasErrors(),
		Diagrams:      counts.Diagrams,
		Components:    counts.Components,
		Relationships: counts.Relationships,
		Clusters:      counts.Clusters,
	}
	for _, f := range bag.Items() {
		r.Entries = append(r.Entries, newEntry(fs, f))
	}
	for _, c := range corrections {
		r.Corrections = append(r.Corrections, Correction{
			Original:    c.Original,
			Replacement: c.Replacement,
			Rule:        c.Kind.String(),
		})
	}
	return r
}

func newEntry(fs *source.FileSet, f diag.Finding) Entry {
	e := Entry{
		Code:     f.Code.String(),
		Category: string(f.Code.Category()),
		Severity: f.Severity.String(),
		Message:  f.Message,
	}
	if fs != nil && !f.Primary.Empty() {
		start, _ := fs.Resolve(f.Primary)
		e.Line, e.Col = start.Line, start.Col
		if file := fs.Get(f.Primary.File); file != nil {
			e.Excerpt = strings.TrimRight(file.GetLine(start.Line), "\r\n")
		}
	}
	return e
}
