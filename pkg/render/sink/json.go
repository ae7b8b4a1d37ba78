package sink

import (
	"github.com/goccy/go-json"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/scene"
)

// XY is a screen coordinate.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WirePerson is the label payload of a node.
type WirePerson struct {
	Name    string  `json:"name"`
	Spouse  string  `json:"spouse,omitempty"`
	Compact bool    `json:"compact,omitempty"`
	Class   string  `json:"class"`
	Width   float64 `json:"width"`
	HasBio  bool    `json:"has_bio,omitempty"`
}

// WireNode is one node operation or node at rest.
type WireNode struct {
	ID          hierarchy.ID `json:"id"`
	Parent      hierarchy.ID `json:"parent"`
	Kind        string       `json:"kind,omitempty"`
	From        *XY          `json:"from,omitempty"`
	To          XY           `json:"to"`
	FromOpacity float64      `json:"from_opacity"`
	ToOpacity   float64      `json:"to_opacity"`
	Collapsed   bool         `json:"collapsed"`
	HasChildren bool         `json:"has_children"`
	Person      WirePerson   `json:"person"`
}

// WireLink is one link operation or link at rest, as SVG path data.
type WireLink struct {
	Child  hierarchy.ID `json:"child"`
	Parent hierarchy.ID `json:"parent"`
	Kind   string       `json:"kind,omitempty"`
	From   string       `json:"from,omitempty"`
	To     string       `json:"to"`
}

// WirePlan is the JSON form of a plan applied by the browser host.
type WirePlan struct {
	Source     hierarchy.ID `json:"source"`
	DurationMS int64        `json:"duration_ms"`
	BoxHeight  float64      `json:"box_height"`
	Nodes      []WireNode   `json:"nodes"`
	Links      []WireLink   `json:"links"`
}

// WireSnapshot is the JSON form of a scene at rest.
type WireSnapshot struct {
	Connector   scene.Connector    `json:"connector"`
	Orientation layout.Orientation `json:"orientation"`
	BoxHeight   float64            `json:"box_height"`
	Bounds      layout.Bounds      `json:"bounds"`
	Nodes       []WireNode         `json:"nodes"`
	Links       []WireLink         `json:"links"`
}

// NewWirePlan converts plan to screen coordinates. The tree supplies the
// persons and their expand state after the toggle.
func NewWirePlan(t *hierarchy.Tree, cfg layout.Config, plan *scene.Plan) WirePlan {
	o := cfg.Orientation
	w := WirePlan{
		Source:     plan.Source,
		DurationMS: plan.Duration.Milliseconds(),
		BoxHeight:  cfg.BoxHeight,
		Nodes:      make([]WireNode, 0, len(plan.Nodes)),
		Links:      make([]WireLink, 0, len(plan.Links)),
	}
	for _, op := range plan.Nodes {
		n, ok := t.Node(op.ID)
		if !ok {
			continue
		}
		from := project(o, op.From)
		w.Nodes = append(w.Nodes, WireNode{
			ID:          op.ID,
			Parent:      n.Parent,
			Kind:        op.Kind.String(),
			From:        &from,
			To:          project(o, op.To),
			FromOpacity: op.FromOpacity,
			ToOpacity:   op.ToOpacity,
			Collapsed:   n.IsCollapsed(),
			HasChildren: n.HasChildren(),
			Person:      wirePerson(n.Person, cfg.BoxWidth),
		})
	}
	for _, op := range plan.Links {
		w.Links = append(w.Links, WireLink{
			Child:  op.Child,
			Parent: op.Parent,
			Kind:   op.Kind.String(),
			From:   op.From.D(o),
			To:     op.To.D(o),
		})
	}
	return w
}

// NewWireSnapshot converts snap to screen coordinates.
func NewWireSnapshot(snap scene.Snapshot) WireSnapshot {
	o := snap.Layout.Orientation
	w := WireSnapshot{
		Connector:   snap.Connector,
		Orientation: o,
		BoxHeight:   snap.Layout.BoxHeight,
		Bounds:      snap.Bounds,
		Nodes:       make([]WireNode, 0, len(snap.Nodes)),
		Links:       make([]WireLink, 0, len(snap.Links)),
	}
	for _, n := range snap.Nodes {
		w.Nodes = append(w.Nodes, WireNode{
			ID:          n.ID,
			Parent:      n.Parent,
			To:          project(o, n.Pos),
			FromOpacity: 1,
			ToOpacity:   1,
			Collapsed:   n.Collapsed,
			HasChildren: n.HasChildren,
			Person:      wirePerson(n.Person, snap.Layout.BoxWidth),
		})
	}
	for _, l := range snap.Links {
		w.Links = append(w.Links, WireLink{Child: l.Child, Parent: l.Parent, To: l.Path.D(o)})
	}
	return w
}

// EncodePlan returns the JSON wire form of plan.
func EncodePlan(t *hierarchy.Tree, cfg layout.Config, plan *scene.Plan) ([]byte, error) {
	return json.Marshal(NewWirePlan(t, cfg, plan))
}

// EncodeSnapshot returns the indented JSON wire form of snap.
func EncodeSnapshot(snap scene.Snapshot) ([]byte, error) {
	return json.MarshalIndent(NewWireSnapshot(snap), "", "  ")
}

func project(o layout.Orientation, p hierarchy.Point) XY {
	x, y := o.Project(p)
	return XY{X: x, Y: y}
}

func wirePerson(p family.Person, boxW float64) WirePerson {
	return WirePerson{
		Name:    p.Name,
		Spouse:  p.SpouseLabel(),
		Compact: p.CompactSpouse(),
		Class:   p.Class(),
		Width:   p.Width(boxW),
		HasBio:  p.Bio != "",
	}
}
