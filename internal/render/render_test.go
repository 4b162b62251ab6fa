package render

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"diagen/internal/diag"
	"diagen/internal/graph"
)

func testGraph() *graph.Diagram {
	g := graph.New("Test")
	a := g.AddNode("Lambda", "fn", nil)
	b := g.AddNode("S3", "bucket", nil)
	g.AddEdge(graph.Edge{From: a, To: b})
	return g
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"dot", FormatDot, true},
		{"PNG", FormatPNG, true},
		{"svg", FormatSVG, true},
		{"pdf", FormatPDF, true},
		{"jpeg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRender_DotNative(t *testing.T) {
	var r Renderer
	bag := diag.NewBag(16)
	arts := r.Render(context.Background(), testGraph(), []Format{FormatDot}, diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		t.Fatalf("findings: %+v", bag.Items())
	}
	if len(arts) != 1 {
		t.Fatalf("artifacts = %d", len(arts))
	}
	a := arts[0]
	if a.Format != FormatDot || a.Diagram != "Test" {
		t.Errorf("artifact = %+v", a)
	}
	if !strings.Contains(string(a.Bytes), "digraph") {
		t.Errorf("bytes = %q", a.Bytes)
	}
	if len(a.Checksum) != 64 {
		t.Errorf("checksum = %q", a.Checksum)
	}
	if a.ID == uuid.Nil {
		t.Error("artifact ID not assigned")
	}
}

func TestRender_ChecksumStable(t *testing.T) {
	var r Renderer
	rep := diag.NopReporter{}
	a := r.Render(context.Background(), testGraph(), []Format{FormatDot}, rep)
	b := r.Render(context.Background(), testGraph(), []Format{FormatDot}, rep)
	if a[0].Checksum != b[0].Checksum {
		t.Error("identical graphs must checksum identically")
	}
	if a[0].ID == b[0].ID {
		t.Error("artifact IDs must be unique per render")
	}
}

func TestRender_FormatFailureIsIsolated(t *testing.T) {
	r := Renderer{Engine: "/nonexistent/graphviz-dot"}
	bag := diag.NewBag(16)

	arts := r.Render(context.Background(), testGraph(),
		[]Format{FormatPNG, FormatDot, FormatSVG}, diag.BagReporter{Bag: bag})

	if len(arts) != 1 || arts[0].Format != FormatDot {
		t.Fatalf("artifacts = %+v, want only dot", arts)
	}
	if bag.Len() != 2 {
		t.Fatalf("findings = %+v, want two render failures", bag.Items())
	}
	for _, f := range bag.Items() {
		if f.Code != diag.RenderFailed {
			t.Errorf("code = %v", f.Code)
		}
	}
}
