package hierarchy

import "github.com/matzehuels/lineage/pkg/family"

// ID is the stable identity of a node within its tree.
type ID int

// NoParent is the parent of the root.
const NoParent ID = -1

// State is the expand state of a node.
type State uint8

const (
	// Leaf nodes have no children.
	Leaf State = iota
	// Expanded nodes show their children.
	Expanded
	// Collapsed nodes hide their children.
	Collapsed
)

func (s State) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "leaf"
	}
}

// Point is a layout coordinate. Rank grows with depth; Order is the
// position among the nodes of one rank.
type Point struct {
	Rank  float64 `json:"rank"`
	Order float64 `json:"order"`
}

// Lerp interpolates between p and q. t=0 yields p, t=1 yields q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		Rank:  p.Rank + (q.Rank-p.Rank)*t,
		Order: p.Order + (q.Order-p.Order)*t,
	}
}

// Node is one person in the tree.
//
// ID, Parent, Depth and Person never change after the tree is built.
type Node struct {
	ID     ID
	Parent ID
	Depth  int
	Person family.Person

	// Pos is the position assigned by the latest layout pass.
	Pos Point
	// Prev is the position before the latest pass, the animation origin.
	Prev Point

	state    State
	children []ID
}

// State returns the node's expand state.
func (n *Node) State() State { return n.state }

// HasChildren reports whether the node has children, shown or not.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// IsCollapsed reports whether the node hides its children.
func (n *Node) IsCollapsed() bool { return n.state == Collapsed }

// VisibleChildren returns the children shown under the node: all of them
// when expanded, none otherwise. The returned slice must not be modified.
func (n *Node) VisibleChildren() []ID {
	if n.state != Expanded {
		return nil
	}
	return n.children
}

// HiddenChildren returns the children hidden by a collapse: all of them
// when collapsed, none otherwise. The returned slice must not be modified.
func (n *Node) HiddenChildren() []ID {
	if n.state != Collapsed {
		return nil
	}
	return n.children
}

// Children returns every child regardless of state.
func (n *Node) Children() []ID { return n.children }
