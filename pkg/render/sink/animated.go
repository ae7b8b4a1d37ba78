package sink

import (
	"bytes"
	"fmt"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/scene"
)

// cubicInOutSpline approximates cubic in-out easing for SMIL.
const cubicInOutSpline = "0.645 0.045 0.355 1"

type animNode struct {
	id          hierarchy.ID
	from, to    hierarchy.Point
	fromOpacity float64
	toOpacity   float64
	removed     bool
}

type animLink struct {
	child    hierarchy.ID
	from, to scene.Path
	removed  bool
}

// AnimatedHost is a [scene.Host] that records one plan and writes it as
// an SVG document animated with SMIL.
type AnimatedHost struct {
	tree     *hierarchy.Tree
	cfg      layout.Config
	duration time.Duration

	nodes     map[hierarchy.ID]*animNode
	nodeOrder []hierarchy.ID
	links     map[hierarchy.ID]*animLink
	linkOrder []hierarchy.ID
}

// NewAnimatedHost returns a host drawing persons of t laid out with cfg.
func NewAnimatedHost(t *hierarchy.Tree, cfg layout.Config) *AnimatedHost {
	return &AnimatedHost{
		tree:  t,
		cfg:   cfg,
		nodes: make(map[hierarchy.ID]*animNode),
		links: make(map[hierarchy.ID]*animLink),
	}
}

// Seed places the elements that exist before plan starts at their
// starting state.
func (h *AnimatedHost) Seed(plan *scene.Plan) {
	for _, op := range plan.Links {
		if op.Kind != scene.Enter {
			h.CreateLink(op.Child, op.From)
		}
	}
	for _, op := range plan.Nodes {
		if op.Kind != scene.Enter {
			h.CreateNode(op.ID, op.From, op.FromOpacity)
		}
	}
}

// CreateNode adds a node element. New elements are stacked below the
// existing ones so entering children slide out from under their parent.
func (h *AnimatedHost) CreateNode(id hierarchy.ID, at hierarchy.Point, opacity float64) {
	if n, ok := h.nodes[id]; ok {
		n.removed = false
		return
	}
	h.nodes[id] = &animNode{id: id, from: at, to: at, fromOpacity: opacity, toOpacity: opacity}
	h.nodeOrder = append([]hierarchy.ID{id}, h.nodeOrder...)
}

// MoveNode sets the node's target state.
func (h *AnimatedHost) MoveNode(id hierarchy.ID, to hierarchy.Point, opacity float64, d time.Duration) {
	if n, ok := h.nodes[id]; ok {
		n.to, n.toOpacity = to, opacity
		h.duration = max(h.duration, d)
	}
}

// RemoveNode hides the node once its transition ends.
func (h *AnimatedHost) RemoveNode(id hierarchy.ID) {
	if n, ok := h.nodes[id]; ok {
		n.removed = true
	}
}

// CreateLink adds a link element below every existing link.
func (h *AnimatedHost) CreateLink(child hierarchy.ID, at scene.Path) {
	if l, ok := h.links[child]; ok {
		l.removed = false
		return
	}
	h.links[child] = &animLink{child: child, from: at, to: at}
	h.linkOrder = append([]hierarchy.ID{child}, h.linkOrder...)
}

// MoveLink sets the link's target geometry.
func (h *AnimatedHost) MoveLink(child hierarchy.ID, to scene.Path, d time.Duration) {
	if l, ok := h.links[child]; ok {
		l.to = to
		h.duration = max(h.duration, d)
	}
}

// RemoveLink hides the link once its transition ends.
func (h *AnimatedHost) RemoveLink(child hierarchy.ID) {
	if l, ok := h.links[child]; ok {
		l.removed = true
	}
}

// Len returns the number of node and link elements.
func (h *AnimatedHost) Len() (nodes, links int) {
	return len(h.nodes), len(h.links)
}

// WriteSVG writes the recorded transition.
func (h *AnimatedHost) WriteSVG(opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	c := boundsOf{cfg: h.cfg}
	for _, n := range h.nodes {
		w := h.width(n.id)
		c.add(n.from, w)
		c.add(n.to, w)
	}
	f := newFrame(c.b, h.cfg.Orientation, r.margin)
	dur := h.duration.Seconds()

	var buf bytes.Buffer
	canvas := r.start(&buf, f)

	canvas.Gid("links")
	for _, id := range h.linkOrder {
		l := h.links[id]
		canvas.Path(l.from.D(f.o), `class="link"`, fmt.Sprintf(`id="%s"`, linkID(id)))
		if dur > 0 {
			// The path element is self-closing, so animations target it by href.
			animate(canvas, r.spline, "#"+linkID(id), "d", l.from.D(f.o), l.to.D(f.o), dur)
			if l.removed {
				hide(canvas, "#"+linkID(id), dur)
			}
		}
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, id := range h.nodeOrder {
		n := h.nodes[id]
		node, ok := h.tree.Node(id)
		if !ok {
			continue
		}
		x, y := f.xy(n.from)
		tx, ty := f.xy(n.to)
		r.box(canvas, box{
			id:          nodeID(id),
			person:      node.Person,
			x:           x,
			y:           y,
			w:           h.width(id),
			h:           h.cfg.BoxHeight,
			collapsed:   node.IsCollapsed(),
			hasChildren: node.HasChildren(),
		}, fmt.Sprintf(`opacity="%s"`, scene.Num(n.fromOpacity)))
		if dur > 0 {
			translate(canvas, r.spline, x, y, tx, ty, dur)
			animate(canvas, r.spline, "", "opacity", scene.Num(n.fromOpacity), scene.Num(n.toOpacity), dur)
			if n.removed {
				hide(canvas, "", dur)
			}
		}
		canvas.Gend()
	}
	canvas.Gend()

	r.finish(canvas)
	return buf.Bytes()
}

func (h *AnimatedHost) width(id hierarchy.ID) float64 {
	if n, ok := h.tree.Node(id); ok {
		return n.Person.Width(h.cfg.BoxWidth)
	}
	return h.cfg.BoxWidth
}

// RenderAnimatedSVG draws plan as a self-playing SVG. The tree supplies
// the persons and must be the tree the plan was rendered from.
func RenderAnimatedSVG(t *hierarchy.Tree, cfg layout.Config, plan *scene.Plan, opts ...SVGOption) []byte {
	h := NewAnimatedHost(t, cfg)
	h.Seed(plan)
	plan.Apply(h)
	return h.WriteSVG(opts...)
}

func animate(canvas *svg.SVG, spline, href, attr, from, to string, dur float64) {
	target := ""
	if href != "" {
		target = fmt.Sprintf(` xlink:href="%s"`, href)
	}
	fmt.Fprintf(canvas.Writer, `<animate%s attributeName="%s" from="%s" to="%s" begin="0s" dur="%gs" fill="freeze"`,
		target, attr, from, to, dur)
	for _, a := range timing(spline) {
		fmt.Fprintf(canvas.Writer, " %s", a)
	}
	fmt.Fprintln(canvas.Writer, "/>")
}

func translate(canvas *svg.SVG, spline string, x, y, tx, ty, dur float64) {
	fmt.Fprintf(canvas.Writer, `<animateTransform attributeName="transform" type="translate" from="%s %s" to="%s %s" begin="0s" dur="%gs" fill="freeze"`,
		scene.Num(x), scene.Num(y), scene.Num(tx), scene.Num(ty), dur)
	for _, a := range timing(spline) {
		fmt.Fprintf(canvas.Writer, " %s", a)
	}
	fmt.Fprintln(canvas.Writer, "/>")
}

func hide(canvas *svg.SVG, href string, dur float64) {
	target := ""
	if href != "" {
		target = fmt.Sprintf(` xlink:href="%s"`, href)
	}
	fmt.Fprintf(canvas.Writer, `<set%s attributeName="visibility" to="hidden" begin="%gs"/>`+"\n", target, dur)
}

func timing(spline string) []string {
	if spline == "" {
		return nil
	}
	return []string{`calcMode="spline"`, `keyTimes="0;1"`, fmt.Sprintf(`keySplines="%s"`, spline)}
}

var _ scene.Host = (*AnimatedHost)(nil)
