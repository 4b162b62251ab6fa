package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleReport(hash string) Report {
	return Report{
		Schema:        ReportSchema,
		SourceHash:    hash,
		Accepted:      true,
		Diagrams:      1,
		Components:    3,
		Relationships: 2,
		Entries: []Entry{
			{Code: "DG5001", Category: "unknown-symbol", Severity: "INFO", Line: 2, Col: 5, Message: "m"},
		},
		Corrections:     []Correction{{Original: "DynamoDB", Replacement: "Dynamodb", Rule: "substituted"}},
		CorrectedSource: "diagram \"D\" {\n}\n",
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hash := SourceHash([]byte("diagram"))
	in := sampleReport(hash)
	if err := c.Put(hash, &in); err != nil {
		t.Fatal(err)
	}

	var out Report
	ok, err := c.Get(hash, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip not identical (-in +out):\n%s", diff)
	}
}

func TestCache_MissOnUnknownHash(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out Report
	if ok, err := c.Get(SourceHash([]byte("nope")), &out); ok || err != nil {
		t.Errorf("Get = %v, %v", ok, err)
	}
}

func TestCache_SchemaMismatchIsMiss(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hash := SourceHash([]byte("old"))
	stale := sampleReport(hash)
	stale.Schema = ReportSchema + 1
	if err := c.Put(hash, &stale); err != nil {
		t.Fatal(err)
	}
	var out Report
	if ok, _ := c.Get(hash, &out); ok {
		t.Error("stale schema must read as a miss")
	}
}

func TestCache_DropAll(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hash := SourceHash([]byte("x"))
	in := sampleReport(hash)
	if err := c.Put(hash, &in); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out Report
	if ok, _ := c.Get(hash, &out); ok {
		t.Error("entry survived DropAll")
	}
	// The cache stays usable after a drop.
	if err := c.Put(hash, &in); err != nil {
		t.Errorf("Put after DropAll: %v", err)
	}
}

func TestSourceHash(t *testing.T) {
	a := SourceHash([]byte("one"))
	b := SourceHash([]byte("one"))
	if a != b || len(a) != 64 {
		t.Errorf("hashes = %q, %q", a, b)
	}
	if SourceHash([]byte("two")) == a {
		t.Error("distinct input must hash differently")
	}
}
