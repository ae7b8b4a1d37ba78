package layout

import (
	stderrors "errors"
	"math"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/hierarchy"
)

// ErrOrphan is wrapped by Layout when the visible set is not the set of
// nodes reachable from the root through expanded nodes.
var ErrOrphan = stderrors.New("layout: node not reachable from root")

// Bounds is the area covered by positioned boxes, in layout coordinates.
type Bounds struct {
	MinRank, MaxRank   float64
	MinOrder, MaxOrder float64
}

// Width returns the extent along the rank axis.
func (b Bounds) Width() float64 { return b.MaxRank - b.MinRank }

// Height returns the extent along the order axis.
func (b Bounds) Height() float64 { return b.MaxOrder - b.MinOrder }

// Engine computes tidy tree layouts. It is stateless apart from its
// configuration and safe for concurrent use on distinct trees.
type Engine struct {
	cfg Config
}

// New returns an engine for cfg. Zero fields take their defaults.
func New(cfg Config) *Engine {
	cfg.SetDefaults()
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// wnode is the working state of one visible node during a pass.
type wnode struct {
	node     *hierarchy.Node
	parent   *wnode
	children []*wnode
	index    int // position among siblings

	prelim   float64
	mod      float64
	change   float64
	shift    float64
	thread   *wnode
	ancestor *wnode
	defAnc   *wnode // default ancestor while apportioning children

	order float64
}

// Layout assigns Pos to every node in visible.
//
// visible must be exactly the visible set of t below its root, as yielded
// by [hierarchy.Tree.VisibleDescendants]; its order does not matter. A node
// whose parent is missing from the set or collapsed, or an expanded node
// whose child is missing, is an INTERNAL error wrapping [ErrOrphan]. On
// error no position is written.
func (e *Engine) Layout(t *hierarchy.Tree, visible []hierarchy.ID) (Bounds, error) {
	root, err := e.wrap(t, visible)
	if err != nil {
		return Bounds{}, err
	}

	// The root hangs off a synthetic parent so that every real node has
	// a parent to store its apportion state on.
	fake := &wnode{children: []*wnode{root}}
	root.parent = fake

	eachAfter(root, e.firstWalk)
	fake.mod = -root.prelim
	eachBefore(root, secondWalk)

	b := Bounds{
		MinRank: math.Inf(1), MaxRank: math.Inf(-1),
		MinOrder: math.Inf(1), MaxOrder: math.Inf(-1),
	}
	eachBefore(root, func(w *wnode) {
		n := w.node
		n.Pos = hierarchy.Point{
			Rank:  float64(n.Depth) * e.cfg.RankSpacing,
			Order: w.order,
		}
		e.extend(&b, n)
	})
	return b, nil
}

func (e *Engine) extend(b *Bounds, n *hierarchy.Node) {
	halfOrder := e.cfg.Footprint(n) / 2
	halfRank := e.cfg.RankExtent() / 2
	if e.cfg.Orientation == Horizontal {
		halfRank = n.Person.Width(e.cfg.BoxWidth) / 2
	}
	b.MinRank = min(b.MinRank, n.Pos.Rank-halfRank)
	b.MaxRank = max(b.MaxRank, n.Pos.Rank+halfRank)
	b.MinOrder = min(b.MinOrder, n.Pos.Order-halfOrder)
	b.MaxOrder = max(b.MaxOrder, n.Pos.Order+halfOrder)
}

// wrap builds the working tree and checks that visible is exactly the
// visible set of t.
func (e *Engine) wrap(t *hierarchy.Tree, visible []hierarchy.ID) (*wnode, error) {
	if len(visible) == 0 {
		return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "empty visible set")
	}
	in := make(map[hierarchy.ID]*wnode, len(visible))
	for _, id := range visible {
		n, ok := t.Node(id)
		if !ok {
			return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "unknown node %d", id)
		}
		in[id] = &wnode{node: n}
	}

	root, ok := in[t.Root()]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "root missing from visible set")
	}

	for id, w := range in {
		if id == t.Root() {
			continue
		}
		p, ok := t.Node(w.node.Parent)
		if !ok || p.State() != hierarchy.Expanded || in[p.ID] == nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "node %d (%s)", id, w.node.Person.Name)
		}
	}

	// Children are linked in sibling order from the tree, not from the
	// order of visible.
	linked := 1
	stack := []*wnode{root}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, cid := range w.node.VisibleChildren() {
			c := in[cid]
			if c == nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "visible child %d of %d missing", cid, w.node.ID)
			}
			c.parent = w
			c.index = i
			w.children = append(w.children, c)
			stack = append(stack, c)
			linked++
		}
	}
	if linked != len(in) {
		return nil, errors.Wrap(errors.ErrCodeInternal, ErrOrphan, "%d nodes outside the visible tree", len(in)-linked)
	}
	return root, nil
}

func (e *Engine) separation(a, b *wnode) float64 {
	return e.cfg.Separation(a.node, b.node)
}

// firstWalk computes a preliminary order for v and combines v's subtree
// with the subtrees of its left siblings.
func (e *Engine) firstWalk(v *wnode) {
	siblings := v.parent.children
	var w *wnode
	if v.index > 0 {
		w = siblings[v.index-1]
	}

	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + e.separation(v, w)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if w != nil {
		v.prelim = w.prelim + e.separation(v, w)
	}

	anc := v.parent.defAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defAnc = e.apportion(v, w, anc)
}

// apportion pushes v's subtree right until it clears the contour of the
// subtrees to its left, spreading the shift over the siblings in between.
func (e *Engine) apportion(v, w, ancestor *wnode) *wnode {
	if w == nil {
		return ancestor
	}

	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v

		shift := vim.prelim + sim - vip.prelim - sip + e.separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

// secondWalk turns preliminary orders into absolute ones.
func secondWalk(v *wnode) {
	v.order = v.prelim + v.parent.mod
	v.mod += v.parent.mod
}

// executeShifts applies the shifts accumulated by moveSubtree to the
// children of v.
func executeShifts(v *wnode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func moveSubtree(wm, wp *wnode, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

// nextLeft returns the successor of v on its subtree's left contour.
func nextLeft(v *wnode) *wnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

// nextRight returns the successor of v on its subtree's right contour.
func nextRight(v *wnode) *wnode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

// nextAncestor returns the left one of the greatest distinct ancestors of
// vim and its right neighbor v.
func nextAncestor(vim, v, ancestor *wnode) *wnode {
	a := vim.ancestor
	if a == nil {
		a = vim
	}
	if a.parent == v.parent {
		return a
	}
	return ancestor
}

// eachAfter visits the subtree of root in post-order, children left to right.
func eachAfter(root *wnode, fn func(*wnode)) {
	type frame struct {
		w    *wnode
		next int
	}
	stack := []frame{{w: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.w.children) {
			c := top.w.children[top.next]
			top.next++
			stack = append(stack, frame{w: c})
			continue
		}
		fn(top.w)
		stack = stack[:len(stack)-1]
	}
}

// eachBefore visits the subtree of root in pre-order.
func eachBefore(root *wnode, fn func(*wnode)) {
	stack := []*wnode{root}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(w)
		for i := len(w.children) - 1; i >= 0; i-- {
			stack = append(stack, w.children[i])
		}
	}
}
