// Package roadmap defines the Waymark domain model.
//
// A [Roadmap] is a titled, authored guide whose steps form a tree of [Node]
// values. Roadmaps carry a like-count baseline, ordered tags and an ordered
// list of [Comment] values. A [User] is one of a fixed set of demo accounts.
//
// # Ownership
//
// Nodes are owned by exactly one roadmap. Node IDs only need to be unique
// within that roadmap's tree; they are used as diagram keys and as members of
// the expanded set (see package layout). Author and comment usernames are
// snapshots taken at write time, not live references.
//
// # Building Trees
//
// The creation form collects a flat list of steps, each optionally pointing at
// an earlier step as its parent. [BuildTree] turns that list into nested nodes:
//
//	nodes, err := roadmap.BuildTree([]roadmap.Step{
//	    {Title: "Basics"},
//	    {Title: "Variables", Parent: 1},
//	    {Title: "Functions", Parent: 1},
//	})
//
// All values in this package are plain data. Use [Roadmap.Clone] before
// handing a roadmap to code that may mutate it.
package roadmap
