package graph

import (
	"bytes"
	"fmt"
	"strings"
)

// Dot serializes the diagram to Graphviz DOT. Output is deterministic:
// nodes, clusters and edges appear in creation order.
func (d *Diagram) Dot() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "digraph %s {\n", dotQuote(d.Name))
	fmt.Fprintf(&b, "    graph [rankdir=%s, label=%s, labelloc=t];\n", d.Direction, dotQuote(d.Name))
	b.WriteString("    node [shape=box, style=rounded];\n")

	for _, c := range d.Clusters {
		writeCluster(&b, c, 1)
	}
	for _, n := range d.free {
		writeNode(&b, n, 1)
	}
	for _, e := range d.Edges {
		writeEdge(&b, e)
	}
	b.WriteString("}\n")
	return b.Bytes()
}

func writeCluster(b *bytes.Buffer, c *Cluster, depth int) {
	in := indent(depth)
	fmt.Fprintf(b, "%ssubgraph %s {\n", in, c.ID)
	fmt.Fprintf(b, "%s    label=%s;\n", in, dotQuote(c.Label))
	for _, child := range c.Children {
		writeCluster(b, child, depth+1)
	}
	for _, n := range c.Nodes {
		writeNode(b, n, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", in)
}

func writeNode(b *bytes.Buffer, n *Node, depth int) {
	fmt.Fprintf(b, "%s%s [label=%s, class=%s];\n",
		indent(depth), n.ID, dotQuote(n.Label), dotQuote(n.Kind))
}

func writeEdge(b *bytes.Buffer, e Edge) {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, "label="+dotQuote(e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, "color="+dotQuote(e.Color))
	}
	if e.Style != "" {
		attrs = append(attrs, "style="+dotQuote(e.Style))
	}
	if e.Dir == DirUndirected {
		attrs = append(attrs, "dir=none")
	}
	fmt.Fprintf(b, "    %s -> %s", e.From.ID, e.To.ID)
	if len(attrs) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(attrs, ", "))
	}
	b.WriteString(";\n")
}

func indent(depth int) string {
	return strings.Repeat("    ", depth)
}

func nodeID(ordinal int) string {
	return fmt.Sprintf("n%d", ordinal)
}

func clusterID(ordinal int) string {
	return fmt.Sprintf("cluster_%d", ordinal)
}

// dotQuote renders a DOT double-quoted string.
func dotQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
