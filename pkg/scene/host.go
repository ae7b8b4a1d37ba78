package scene

import (
	"time"

	"github.com/matzehuels/lineage/pkg/hierarchy"
)

// Host is a drawing surface that can animate elements addressed by node
// identity.
//
// Move calls schedule a transition from the element's current state.
// A host receiving a Move for an element that is still moving retargets
// it; Remove calls take effect when the element's transition ends. A host
// asked to create an element that still exists (an exit overtaken by a
// newer cycle) reuses it.
type Host interface {
	CreateNode(id hierarchy.ID, at hierarchy.Point, opacity float64)
	MoveNode(id hierarchy.ID, to hierarchy.Point, opacity float64, d time.Duration)
	RemoveNode(id hierarchy.ID)

	CreateLink(child hierarchy.ID, at Path)
	MoveLink(child hierarchy.ID, to Path, d time.Duration)
	RemoveLink(child hierarchy.ID)
}

// Apply issues the plan's operations to h. Links are issued first so
// hosts that stack elements in call order draw links under nodes.
func (p *Plan) Apply(h Host) {
	for _, op := range p.Links {
		if op.Kind == Enter {
			h.CreateLink(op.Child, op.From)
		}
		h.MoveLink(op.Child, op.To, p.Duration)
		if op.Kind == Exit {
			h.RemoveLink(op.Child)
		}
	}
	for _, op := range p.Nodes {
		if op.Kind == Enter {
			h.CreateNode(op.ID, op.From, op.FromOpacity)
		}
		h.MoveNode(op.ID, op.To, op.ToOpacity, p.Duration)
		if op.Kind == Exit {
			h.RemoveNode(op.ID)
		}
	}
}
