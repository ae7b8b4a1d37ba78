// Package hierarchy provides the collapsible tree model behind a family
// diagram.
//
// # Overview
//
// A [Tree] is an arena of [Node] values built once from a [family.Record].
// Every node gets a stable [ID] at construction: IDs are assigned in
// depth-first pre-order starting at 0 for the root, and the ID is also the
// node's index in the arena. Parents are stored as IDs, so the tree owns
// all of its nodes and children never own their parents.
//
// # Expand and collapse
//
// Each node with children is either [Expanded] or [Collapsed]; nodes
// without children are [Leaf]. The node keeps one child list, which is
// reported as visible while expanded and hidden while collapsed:
//
//	t.CollapseSubtree(id) // id and every descendant, recursively
//	t.Toggle(id)          // one level; grandchildren keep their state
//
// Collapsing never discards anything, so expanding a node shows exactly
// the children it had before, each in the state it was hidden in.
//
// # Visible set
//
// [Tree.VisibleDescendants] walks the nodes reachable from a root through
// expanded nodes only. The iterator is lazy and can be ranged over any
// number of times.
//
// # Positions
//
// Nodes carry the layout coordinate of the current pass ([Node.Pos]) and of
// the previous one ([Node.Prev]). The layout engine writes Pos; the
// reconciler calls [Tree.Settle] once a cycle is scheduled so that Prev
// becomes the start point of the next animation.
//
// [family.Record]: github.com/matzehuels/lineage/pkg/family.Record
package hierarchy
