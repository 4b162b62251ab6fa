// Package graph is the materialized form of one diagram: the nodes,
// edges and cluster tree the sandbox produced by interpreting a
// corrected candidate. A Diagram knows how to serialize itself to
// Graphviz DOT, which is the only format the renderer consumes.
package graph

// EdgeDir is the rendering direction of one edge.
type EdgeDir uint8

const (
	// DirForward renders with an arrowhead at the destination.
	DirForward EdgeDir = iota
	// DirUndirected renders with no arrowheads.
	DirUndirected
)

// Node is one component instance.
type Node struct {
	// ID is the stable DOT identifier, assigned in creation order.
	ID string
	// Kind is the canonical component name the node was built from.
	Kind  string
	Label string
}

// Edge connects two nodes. Reverse chains are normalized at build time
// so From is always the tail.
type Edge struct {
	From, To *Node
	Dir      EdgeDir
	Label    string
	Color    string
	Style    string
}

// Cluster is one named group. Clusters nest; Nodes holds only the
// direct members, not those of child clusters.
type Cluster struct {
	ID       string
	Label    string
	Nodes    []*Node
	Children []*Cluster
}

// Diagram is the root of one materialized graph.
type Diagram struct {
	Name      string
	Direction string
	Nodes     []*Node
	Edges     []Edge
	Clusters  []*Cluster
	// free lists the nodes outside any cluster, in creation order.
	free []*Node
}

// New creates an empty diagram. Direction defaults to left-to-right.
func New(name string) *Diagram {
	return &Diagram{Name: name, Direction: "LR"}
}

// AddNode creates a node of the given kind, attached to parent when
// non-nil, and assigns its identifier.
func (d *Diagram) AddNode(kind, label string, parent *Cluster) *Node {
	n := &Node{
		ID:    nodeID(len(d.Nodes)),
		Kind:  kind,
		Label: label,
	}
	d.Nodes = append(d.Nodes, n)
	if parent != nil {
		parent.Nodes = append(parent.Nodes, n)
	} else {
		d.free = append(d.free, n)
	}
	return n
}

// AddCluster creates a cluster under parent, or at the top level when
// parent is nil.
func (d *Diagram) AddCluster(label string, parent *Cluster) *Cluster {
	c := &Cluster{
		ID:    clusterID(d.countClusters()),
		Label: label,
	}
	if parent != nil {
		parent.Children = append(parent.Children, c)
	} else {
		d.Clusters = append(d.Clusters, c)
	}
	return c
}

// AddEdge appends one edge.
func (d *Diagram) AddEdge(e Edge) {
	d.Edges = append(d.Edges, e)
}

func (d *Diagram) countClusters() int {
	n := 0
	var walk func(cs []*Cluster)
	walk = func(cs []*Cluster) {
		for _, c := range cs {
			n++
			walk(c.Children)
		}
	}
	walk(d.Clusters)
	return n
}
