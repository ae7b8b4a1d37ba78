package scene

import (
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
)

// DefaultDuration is the length of one transition.
const DefaultDuration = 750 * time.Millisecond

// Option configures a Scene.
type Option func(*Scene)

// WithConnector sets the link style. The default is Elbow.
func WithConnector(c Connector) Option {
	return func(s *Scene) { s.connector = c }
}

// WithDuration sets the transition length. Zero makes plans instant.
func WithDuration(d time.Duration) Option {
	return func(s *Scene) { s.duration = d }
}

// WithEasing sets the easing used by Plan.Frame.
func WithEasing(e Easing) Option {
	return func(s *Scene) { s.ease = e }
}

// Scene owns the rendered state of one tree.
//
// A Scene is not safe for concurrent use; callers serialize cycles.
type Scene struct {
	tree      *hierarchy.Tree
	engine    *layout.Engine
	connector Connector
	duration  time.Duration
	ease      Easing

	// last rendered targets, by node identity
	nodes  map[hierarchy.ID]hierarchy.Point
	links  map[hierarchy.ID]Path
	bounds layout.Bounds
	cycles int
}

// New returns a scene with nothing rendered yet.
func New(t *hierarchy.Tree, e *layout.Engine, opts ...Option) *Scene {
	s := &Scene{
		tree:      t,
		engine:    e,
		connector: Elbow,
		duration:  DefaultDuration,
		ease:      CubicInOut,
		nodes:     make(map[hierarchy.ID]hierarchy.Point),
		links:     make(map[hierarchy.ID]Path),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tree returns the scene's tree.
func (s *Scene) Tree() *hierarchy.Tree { return s.tree }

// Connector returns the link style.
func (s *Scene) Connector() Connector { return s.connector }

// Orientation returns the layout orientation.
func (s *Scene) Orientation() layout.Orientation { return s.engine.Config().Orientation }

// Layout returns the layout configuration.
func (s *Scene) Layout() layout.Config { return s.engine.Config() }

// Bounds returns the extent of the last rendered layout.
func (s *Scene) Bounds() layout.Bounds { return s.bounds }

// Cycles returns the number of completed render cycles.
func (s *Scene) Cycles() int { return s.cycles }

// Rendered returns the IDs of the rendered nodes in ascending order.
func (s *Scene) Rendered() []hierarchy.ID {
	return slices.Sorted(maps.Keys(s.nodes))
}

// LinkPath returns the rendered path of the link into child.
func (s *Scene) LinkPath(child hierarchy.ID) (Path, bool) {
	p, ok := s.links[child]
	return p, ok
}

// Render runs one reconciliation cycle with source as the animation
// origin. The toggle that caused the cycle must already be applied.
//
// If layout fails the scene and the tree positions are left untouched and
// the error is returned.
func (s *Scene) Render(source hierarchy.ID) (*Plan, error) {
	src, ok := s.tree.Node(source)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "source node %d not found", source)
	}

	visible := slices.Collect(s.tree.VisibleDescendants(s.tree.Root()))
	bounds, err := s.engine.Layout(s.tree, visible)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Source:   source,
		Duration: s.duration,
		Nodes:    make([]NodeOp, 0, len(visible)),
		Links:    make([]LinkOp, 0, len(visible)),
		ease:     s.ease,
	}
	nodes := make(map[hierarchy.ID]hierarchy.Point, len(visible))
	links := make(map[hierarchy.ID]Path, len(visible))

	for _, id := range visible {
		n, _ := s.tree.Node(id)
		op := NodeOp{ID: id, To: n.Pos, ToOpacity: 1}
		if _, seen := s.nodes[id]; seen {
			op.Kind, op.From, op.FromOpacity = Update, n.Prev, 1
		} else {
			op.Kind, op.From, op.FromOpacity = Enter, src.Prev, 0
		}
		plan.Nodes = append(plan.Nodes, op)
		nodes[id] = n.Pos

		if n.Parent == hierarchy.NoParent {
			continue
		}
		p, _ := s.tree.Node(n.Parent)
		lop := LinkOp{Child: id, Parent: n.Parent, To: s.connector.Path(p.Pos, n.Pos)}
		if old, seen := s.links[id]; seen {
			lop.Kind, lop.From = Update, old
		} else {
			lop.Kind, lop.From = Enter, s.connector.Collapsed(src.Prev)
		}
		plan.Links = append(plan.Links, lop)
		links[id] = lop.To
	}

	for _, id := range slices.Sorted(maps.Keys(s.nodes)) {
		if _, still := nodes[id]; still {
			continue
		}
		plan.Nodes = append(plan.Nodes, NodeOp{
			ID:          id,
			Kind:        Exit,
			From:        s.nodes[id],
			To:          src.Pos,
			FromOpacity: 1,
			ToOpacity:   0,
		})
	}
	for _, id := range slices.Sorted(maps.Keys(s.links)) {
		if _, still := links[id]; still {
			continue
		}
		n, _ := s.tree.Node(id)
		plan.Links = append(plan.Links, LinkOp{
			Child:  id,
			Parent: n.Parent,
			Kind:   Exit,
			From:   s.links[id],
			To:     s.connector.Collapsed(src.Pos),
		})
	}

	s.tree.Settle()
	s.nodes = nodes
	s.links = links
	s.bounds = bounds
	s.cycles++
	return plan, nil
}
