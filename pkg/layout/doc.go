// Package layout positions a roadmap's node tree for the zig-zag diagram.
//
// The engine is a pure function of (tree, expanded set, options). It never
// keeps state between calls; toggling a node rebuilds the whole layout.
//
// # Algorithm
//
// Nodes are visited depth-first in pre-order. Every visited node is placed at
// the running vertical cursor, which then advances by box height plus the
// vertical gap. A node's children are visited only when the node is in the
// [Expanded] set and has children, and they advance the same cursor, so a
// sibling always starts below the previous sibling's whole subtree.
//
// Children are offset horizontally from their parent by the horizontal gap:
// to the right when the parent sits at an even depth, to the left when it sits
// at an odd depth. The result is a compact zig-zag instead of an ever-widening
// tree.
//
// # Edges
//
// Each parent-child pair gets a cubic Bézier [Curve] from the parent's
// bottom-center to the child's top-center. Both control points sit half a
// vertical gap away from their endpoints, straight below the parent and
// straight above the child, which yields an S-curve with vertical tangents.
//
// # Normalization
//
// Left zigs can produce negative x. After placement every node and every
// curve point is shifted right by one scalar so the smallest x equals the
// padding. Curves are shifted structurally; [ShiftPath] performs the same
// shift on an already rendered path string.
//
// # Usage
//
//	exp := layout.NewExpanded("j1", "j1.1")
//	res := layout.Forest(rm.Nodes, exp, layout.DefaultOptions())
//	for _, n := range res.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//	exp = exp.Toggle("j1.1") // collapse, then lay out again
//
// Deep trees grow the canvas without bound. No depth limit is imposed.
package layout
