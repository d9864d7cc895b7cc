package roadmap

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Core Types
// =============================================================================

// User is a demo account. The user set is static and never mutated.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

// Author is a snapshot of the user who created a roadmap.
type Author struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
}

// AuthorOf returns the author snapshot for u.
func AuthorOf(u User) Author {
	return Author{ID: u.ID, Username: u.Username}
}

// Node is one step in a roadmap's tree.
type Node struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Children    []Node `json:"children,omitempty" bson:"children,omitempty"`
}

// HasChildren reports whether the node can be expanded.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// Comment is a user remark attached to a roadmap.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Username  string    `json:"username" bson:"username"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Roadmap is a titled, authored, tree-structured guide.
type Roadmap struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Author      Author    `json:"author" bson:"author"`
	Likes       int       `json:"likes" bson:"likes"`
	Tags        []string  `json:"tags" bson:"tags"`
	Nodes       []Node    `json:"nodes" bson:"nodes"`
	Comments    []Comment `json:"comments" bson:"comments"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Root returns the first top-level node, or nil if the roadmap has no steps.
func (r *Roadmap) Root() *Node {
	if len(r.Nodes) == 0 {
		return nil
	}
	return &r.Nodes[0]
}

// Find returns the node with the given ID anywhere in the tree.
func (r *Roadmap) Find(id string) (*Node, bool) {
	return findIn(r.Nodes, id)
}

func findIn(nodes []Node, id string) (*Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], true
		}
		if n, ok := findIn(nodes[i].Children, id); ok {
			return n, true
		}
	}
	return nil, false
}

// CountNodes returns the number of nodes in the whole tree.
func (r *Roadmap) CountNodes() int {
	count := 0
	Walk(r.Nodes, func(Node, int) bool {
		count++
		return true
	})
	return count
}

// ExpandableIDs returns the IDs of every node that has children, in pre-order.
// Passing them all to the layout engine shows the fully expanded tree.
func (r *Roadmap) ExpandableIDs() []string {
	var ids []string
	Walk(r.Nodes, func(n Node, _ int) bool {
		if n.HasChildren() {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

// Clone returns a deep copy of the roadmap.
func (r Roadmap) Clone() Roadmap {
	out := r
	out.Tags = slices.Clone(r.Tags)
	out.Nodes = cloneNodes(r.Nodes)
	out.Comments = slices.Clone(r.Comments)
	return out
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Children = cloneNodes(n.Children)
	}
	return out
}

// NewComment creates a comment by u with a fresh ID and the current time.
func NewComment(u User, text string, now time.Time) Comment {
	return Comment{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Text:      text,
		Timestamp: now.UTC(),
	}
}

// =============================================================================
// Traversal
// =============================================================================

// Walk visits nodes in depth-first pre-order, passing each node's depth.
// Top-level nodes have depth 0. Returning false from fn skips that node's
// children but continues with its siblings.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}
