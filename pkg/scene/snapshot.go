package scene

import (
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
)

// NodeView is a rendered node at rest.
type NodeView struct {
	ID          hierarchy.ID
	Parent      hierarchy.ID
	Depth       int
	Person      family.Person
	Pos         hierarchy.Point
	Collapsed   bool
	HasChildren bool
}

// LinkView is a rendered link at rest.
type LinkView struct {
	Child  hierarchy.ID
	Parent hierarchy.ID
	Path   Path
}

// Snapshot is the scene after its last transition finished. Static
// exports draw snapshots.
type Snapshot struct {
	Nodes     []NodeView
	Links     []LinkView
	Bounds    layout.Bounds
	Layout    layout.Config
	Connector Connector
}

// Snapshot returns the rendered scene in pre-order.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Bounds:    s.bounds,
		Layout:    s.engine.Config(),
		Connector: s.connector,
	}
	// IDs are assigned in pre-order, so ascending IDs are pre-order too.
	for _, id := range s.Rendered() {
		n, _ := s.tree.Node(id)
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:          id,
			Parent:      n.Parent,
			Depth:       n.Depth,
			Person:      n.Person,
			Pos:         s.nodes[id],
			Collapsed:   n.IsCollapsed(),
			HasChildren: n.HasChildren(),
		})
		if p, ok := s.links[id]; ok {
			snap.Links = append(snap.Links, LinkView{Child: id, Parent: n.Parent, Path: p})
		}
	}
	return snap
}

// Node returns the view of node id.
func (s Snapshot) Node(id hierarchy.ID) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}
