package graph

import (
	"strings"
	"testing"
)

func TestAddNode_IDsAndPlacement(t *testing.T) {
	d := New("Test")
	vpc := d.AddCluster("VPC", nil)
	a := d.AddNode("Lambda", "fn", nil)
	b := d.AddNode("RDS", "db", vpc)

	if a.ID != "n0" || b.ID != "n1" {
		t.Errorf("ids = %s, %s", a.ID, b.ID)
	}
	if len(vpc.Nodes) != 1 || vpc.Nodes[0] != b {
		t.Errorf("cluster members = %+v", vpc.Nodes)
	}
	if len(d.Nodes) != 2 {
		t.Errorf("total nodes = %d", len(d.Nodes))
	}
}

func TestAddCluster_Nesting(t *testing.T) {
	d := New("Test")
	outer := d.AddCluster("outer", nil)
	inner := d.AddCluster("inner", outer)

	if outer.ID != "cluster_0" || inner.ID != "cluster_1" {
		t.Errorf("ids = %s, %s", outer.ID, inner.ID)
	}
	if len(d.Clusters) != 1 {
		t.Errorf("top-level clusters = %d, want 1", len(d.Clusters))
	}
	if len(outer.Children) != 1 || outer.Children[0] != inner {
		t.Errorf("children = %+v", outer.Children)
	}
}

func TestDot(t *testing.T) {
	d := New("Web Shop")
	d.Direction = "TB"
	vpc := d.AddCluster("VPC", nil)
	api := d.AddNode("APIGateway", "API", nil)
	db := d.AddNode("RDS", "Postgres", vpc)
	d.AddEdge(Edge{From: api, To: db, Label: "writes"})
	d.AddEdge(Edge{From: api, To: db, Dir: DirUndirected})

	dot := string(d.Dot())
	for _, want := range []string{
		`digraph "Web Shop" {`,
		`rankdir=TB`,
		`subgraph cluster_0 {`,
		`label="VPC";`,
		`n0 [label="API", class="APIGateway"];`,
		`n1 [label="Postgres", class="RDS"];`,
		`n0 -> n1 [label="writes"];`,
		`n0 -> n1 [dir=none];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestDot_Deterministic(t *testing.T) {
	build := func() string {
		d := New("D")
		c := d.AddCluster("grp", nil)
		a := d.AddNode("Lambda", "a", c)
		b := d.AddNode("S3", "b", nil)
		d.AddEdge(Edge{From: a, To: b})
		return string(d.Dot())
	}
	if build() != build() {
		t.Error("identical graphs must serialize identically")
	}
}

func TestDotQuote(t *testing.T) {
	d := New(`He said "hi"` + "\nnext")
	dot := string(d.Dot())
	if !strings.Contains(dot, `digraph "He said \"hi\"\nnext" {`) {
		t.Errorf("quoting wrong:\n%s", dot)
	}
}
