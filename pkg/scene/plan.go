package scene

import (
	"fmt"
	"time"

	"github.com/matzehuels/lineage/pkg/hierarchy"
)

// Kind classifies an element in a reconciliation.
type Kind uint8

const (
	// Enter elements are new in this cycle.
	Enter Kind = iota
	// Update elements persist from the previous cycle.
	Update
	// Exit elements are removed once their transition ends.
	Exit
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Update:
		return "update"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// NodeOp is the transition of one node element.
type NodeOp struct {
	ID          hierarchy.ID    `json:"id"`
	Kind        Kind            `json:"kind"`
	From        hierarchy.Point `json:"from"`
	To          hierarchy.Point `json:"to"`
	FromOpacity float64         `json:"from_opacity"`
	ToOpacity   float64         `json:"to_opacity"`
}

// LinkOp is the transition of the link into one child.
type LinkOp struct {
	Child  hierarchy.ID `json:"child"`
	Parent hierarchy.ID `json:"parent"`
	Kind   Kind         `json:"kind"`
	From   Path         `json:"from"`
	To     Path         `json:"to"`
}

// Plan is the outcome of one render cycle.
type Plan struct {
	Source   hierarchy.ID  `json:"source"`
	Duration time.Duration `json:"duration"`
	Nodes    []NodeOp      `json:"nodes"`
	Links    []LinkOp      `json:"links"`

	ease Easing
}

// Count returns the number of node operations of kind k.
func (p *Plan) Count(k Kind) int {
	n := 0
	for _, op := range p.Nodes {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Node returns the operation for node id.
func (p *Plan) Node(id hierarchy.ID) (NodeOp, bool) {
	for _, op := range p.Nodes {
		if op.ID == id {
			return op, true
		}
	}
	return NodeOp{}, false
}

// Link returns the operation for the link into child.
func (p *Plan) Link(child hierarchy.ID) (LinkOp, bool) {
	for _, op := range p.Links {
		if op.Child == child {
			return op, true
		}
	}
	return LinkOp{}, false
}

// NodeState is a node element sampled at some progress.
type NodeState struct {
	ID      hierarchy.ID
	At      hierarchy.Point
	Opacity float64
	Exiting bool
}

// LinkState is a link element sampled at some progress.
type LinkState struct {
	Child hierarchy.ID
	Path  Path
}

// Frame is the scene at one instant of a transition.
type Frame struct {
	Nodes []NodeState
	Links []LinkState
	Done  bool
}

// Frame samples the plan at linear progress t in [0,1]. Easing is applied
// here. Once t reaches 1 exiting elements are gone.
func (p *Plan) Frame(t float64) Frame {
	t = clamp01(t)
	ease := p.ease
	if ease == nil {
		ease = CubicInOut
	}
	e := ease(t)
	done := t >= 1

	f := Frame{
		Nodes: make([]NodeState, 0, len(p.Nodes)),
		Links: make([]LinkState, 0, len(p.Links)),
		Done:  done,
	}
	for _, op := range p.Nodes {
		if done && op.Kind == Exit {
			continue
		}
		f.Nodes = append(f.Nodes, NodeState{
			ID:      op.ID,
			At:      op.From.Lerp(op.To, e),
			Opacity: op.FromOpacity + (op.ToOpacity-op.FromOpacity)*e,
			Exiting: op.Kind == Exit,
		})
	}
	for _, op := range p.Links {
		if done && op.Kind == Exit {
			continue
		}
		f.Links = append(f.Links, LinkState{Child: op.Child, Path: op.From.Lerp(op.To, e)})
	}
	return f
}

// FrameAt samples the plan at elapsed time since it started.
func (p *Plan) FrameAt(elapsed time.Duration) Frame {
	if p.Duration <= 0 {
		return p.Frame(1)
	}
	return p.Frame(float64(elapsed) / float64(p.Duration))
}
