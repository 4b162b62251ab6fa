package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"diagen/internal/diag"
	"diagen/internal/source"
)

func fixture(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("shop.dg", []byte("diagram \"Shop\" {\n    x = exec(\"id\")\n}\n"))

	bag := diag.NewBag(16)
	// Span covers `exec` on line 2 (offset 25..29).
	bag.Add(diag.NewError(diag.SecForbiddenCall,
		source.Span{File: id, Start: 25, End: 29},
		`call to "exec" is forbidden`))
	bag.Sort()
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := fixture(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	out := buf.String()
	for _, want := range []string{
		"shop.dg:2:9: ERROR DG4001:",
		`call to "exec" is forbidden`,
		`x = exec("id")`,
		"^~~~",
		"1 finding(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPretty_EmptyBag(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, diag.NewBag(4), source.NewFileSet(), PrettyOpts{})
	if buf.Len() != 0 {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPretty_Notes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.dg", []byte("diagram \"D\" {\na = S3(\"x\")\na = S3(\"y\")\n}\n"))
	bag := diag.NewBag(8)
	f := diag.NewError(diag.StructDuplicateBinding, source.Span{File: id, Start: 26, End: 27}, `name "a" is already bound`).
		WithNote(source.Span{File: id, Start: 14, End: 15}, "previous binding is here")
	bag.Add(f)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "note: previous binding is here") {
		t.Errorf("notes missing:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := fixture(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}

	var out FindingsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Findings) != 1 {
		t.Fatalf("output = %+v", out)
	}
	f := out.Findings[0]
	if f.Code != "DG4001" || f.Category != "forbidden-construct" || f.Severity != "ERROR" {
		t.Errorf("finding = %+v", f)
	}
	if f.Location.StartLine != 2 || f.Location.StartCol != 9 {
		t.Errorf("location = %+v", f.Location)
	}
}

func TestJSON_MaxTruncatesOutputOnly(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.dg", []byte("x\n"))
	bag := diag.NewBag(8)
	for range 3 {
		bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{}, "m"))
	}

	out := BuildOutput(bag, fs, JSONOpts{Max: 2})
	if len(out.Findings) != 2 || out.Count != 3 {
		t.Errorf("output = %+v", out)
	}
}
