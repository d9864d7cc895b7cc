package layout

import (
	"math"

	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Placed is a node positioned on the canvas.
type Placed struct {
	ID          string  `json:"id" bson:"id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Parent      string  `json:"parent,omitempty" bson:"parent,omitempty"`
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Width       float64 `json:"width" bson:"width"`
	Height      float64 `json:"height" bson:"height"`
	Depth       int     `json:"depth" bson:"depth"`
	HasChildren bool    `json:"hasChildren" bson:"has_children"`
	Expanded    bool    `json:"expanded" bson:"expanded"`
}

// Edge connects a placed parent to a placed child.
type Edge struct {
	ID    string `json:"id" bson:"id"`
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Curve Curve  `json:"curve" bson:"curve"`
	Path  string `json:"path" bson:"path"`
}

// Result is the immutable output of a layout run.
// Nodes are in pre-order; Edges are in the order their child was placed.
type Result struct {
	Nodes  []Placed `json:"nodes" bson:"nodes"`
	Edges  []Edge   `json:"edges" bson:"edges"`
	Width  float64  `json:"width" bson:"width"`
	Height float64  `json:"height" bson:"height"`
}

// Node returns the placed node with the given ID.
func (r Result) Node(id string) (Placed, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Placed{}, false
}

// Layout positions the tree rooted at root.
func Layout(root roadmap.Node, exp Expanded, opts Options) Result {
	return Forest([]roadmap.Node{root}, exp, opts)
}

// Forest positions several top-level trees. Each root is placed at depth 0
// at the anchor x, below the previous root's visible subtree. A single-root
// forest is identical to [Layout].
func Forest(roots []roadmap.Node, exp Expanded, opts Options) Result {
	if len(roots) == 0 {
		return Result{Nodes: []Placed{}, Edges: []Edge{}}
	}

	var sub subtree
	cursor := opts.AnchorY
	for _, root := range roots {
		s := place(root, opts.AnchorX, cursor, 0, nil, exp, opts)
		sub.nodes = append(sub.nodes, s.nodes...)
		sub.edges = append(sub.edges, s.edges...)
		cursor = s.next
	}
	return normalize(sub, opts)
}

// ForRoadmap lays out every top-level node of r.
func ForRoadmap(r *roadmap.Roadmap, exp Expanded, opts Options) Result {
	return Forest(r.Nodes, exp, opts)
}

// subtree is the unshifted output of placing one node and its visible descendants.
type subtree struct {
	nodes []Placed
	edges []Edge
	next  float64 // cursor after the subtree
}

func place(n roadmap.Node, x, y float64, depth int, parent *Placed, exp Expanded, opts Options) subtree {
	expanded := exp.Has(n.ID)
	self := Placed{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		X:           x,
		Y:           y,
		Width:       opts.BoxWidth,
		Height:      opts.BoxHeight,
		Depth:       depth,
		HasChildren: n.HasChildren(),
		Expanded:    expanded,
	}
	if parent != nil {
		self.Parent = parent.ID
	}

	out := subtree{nodes: []Placed{self}}
	if parent != nil {
		// A node has one parent, so its own ID names the edge.
		out.edges = append(out.edges, Edge{
			ID:    "line-" + n.ID,
			From:  parent.ID,
			To:    n.ID,
			Curve: connect(*parent, self, opts.VerticalGap),
		})
	}

	cursor := y + opts.BoxHeight + opts.VerticalGap
	if expanded && n.HasChildren() {
		dx := opts.HorizontalGap
		if depth%2 != 0 {
			dx = -dx
		}
		for _, child := range n.Children {
			s := place(child, x+dx, cursor, depth+1, &self, exp, opts)
			out.nodes = append(out.nodes, s.nodes...)
			out.edges = append(out.edges, s.edges...)
			cursor = s.next
		}
	}
	out.next = cursor
	return out
}

// normalize shifts everything so the leftmost box sits at the padding and
// computes the canvas size.
func normalize(s subtree, opts Options) Result {
	minX, maxX, maxY := math.Inf(1), math.Inf(-1), 0.0
	for _, n := range s.nodes {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X+n.Width)
		maxY = math.Max(maxY, n.Y+n.Height)
	}
	dx := opts.Padding - minX

	nodes := make([]Placed, len(s.nodes))
	for i, n := range s.nodes {
		n.X += dx
		nodes[i] = n
	}
	edges := make([]Edge, len(s.edges))
	for i, e := range s.edges {
		e.Curve = e.Curve.Shift(dx)
		e.Path = e.Curve.Path()
		edges[i] = e
	}

	return Result{
		Nodes:  nodes,
		Edges:  edges,
		Width:  maxX - minX + 2*opts.Padding,
		Height: maxY + opts.Padding,
	}
}
