package sink

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/render/styles"
	"github.com/matzehuels/lineage/pkg/scene"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme  styles.Theme
	margin float64
	bios   bool
	spline string
}

// WithTheme sets the colors.
func WithTheme(t styles.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithMargin sets the padding around the chart.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithBios adds each person's bio as a hover tooltip.
func WithBios() SVGOption { return func(r *svgRenderer) { r.bios = true } }

// WithEasing selects the SMIL timing of animated output by easing name.
func WithEasing(name string) SVGOption {
	return func(r *svgRenderer) {
		if name == "linear" {
			r.spline = ""
		} else {
			r.spline = cubicInOutSpline
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		theme:  styles.DefaultTheme(),
		margin: DefaultMargin,
		spline: cubicInOutSpline,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// box is one person box in screen coordinates.
type box struct {
	id          string
	person      family.Person
	x, y        float64
	w, h        float64
	collapsed   bool
	hasChildren bool
}

// RenderSVG draws the scene at rest.
func RenderSVG(snap scene.Snapshot, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	f := newFrame(snap.Bounds, snap.Layout.Orientation, r.margin)

	var buf bytes.Buffer
	canvas := r.start(&buf, f)

	canvas.Gid("links")
	for _, l := range snap.Links {
		canvas.Path(l.Path.D(f.o), `class="link"`, fmt.Sprintf(`id="%s"`, linkID(l.Child)))
	}
	canvas.Gend()

	// Later siblings and descendants go first so parents stay on top.
	canvas.Gid("nodes")
	for _, n := range slices.Backward(snap.Nodes) {
		x, y := f.xy(n.Pos)
		r.box(canvas, box{
			id:          nodeID(n.ID),
			person:      n.Person,
			x:           x,
			y:           y,
			w:           n.Person.Width(snap.Layout.BoxWidth),
			h:           snap.Layout.BoxHeight,
			collapsed:   n.Collapsed,
			hasChildren: n.HasChildren,
		}, "")
		canvas.Gend()
	}
	canvas.Gend()

	r.finish(canvas)
	return buf.Bytes()
}

func (r svgRenderer) start(buf *bytes.Buffer, f frame) *svg.SVG {
	canvas := svg.New(buf)
	canvas.Start(f.w, f.h, fmt.Sprintf(`viewBox="0 0 %d %d"`, f.w, f.h))
	canvas.Style("text/css", r.theme.CSS())
	canvas.Rect(0, 0, f.w, f.h, `class="chart-bg"`)
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", scene.Num(f.dx), scene.Num(f.dy)))
	return canvas
}

func (r svgRenderer) finish(canvas *svg.SVG) {
	canvas.Gend()
	canvas.End()
}

// box opens the node group and draws its content. The caller closes the
// group, after adding animations if any.
func (r svgRenderer) box(canvas *svg.SVG, b box, extra string) {
	class := "node"
	if b.hasChildren {
		class += " node--has-children"
	}
	attrs := []string{
		fmt.Sprintf(`id="%s"`, b.id),
		fmt.Sprintf(`class="%s"`, class),
		fmt.Sprintf(`transform="translate(%s,%s)"`, scene.Num(b.x), scene.Num(b.y)),
	}
	if extra != "" {
		attrs = append(attrs, extra)
	}
	canvas.Group(attrs...)

	w, h := int(math.Round(b.w)), int(math.Round(b.h))
	canvas.Rect(-w/2, -h/2, w, h, fmt.Sprintf(`class="%s"`, b.person.Class()))

	canvas.Text(0, 0, styles.Fit(b.person.Name, b.w, styles.FontSize),
		`class="node-name"`, fmt.Sprintf(`dy="%s"`, styles.NameOffset(b.person)), `text-anchor="middle"`)

	if b.person.HasSpouse() {
		attrs := []string{`class="spouse-name"`, fmt.Sprintf(`dy="%s"`, styles.SpouseDY), `text-anchor="middle"`}
		if st := styles.SpouseStyle(b.person); st != "" {
			attrs = append(attrs, fmt.Sprintf(`style="%s"`, st))
		}
		canvas.Text(0, 0, styles.Fit(b.person.SpouseLabel(), b.w, styles.SpouseSize(b.person)), attrs...)
	}

	if b.hasChildren {
		visibility := "hidden"
		if b.collapsed {
			visibility = "visible"
		}
		canvas.Text(int(styles.ExpandIconX(b.w)), int(styles.ExpandIconY), styles.ExpandIcon,
			`class="expand-icon"`, `text-anchor="middle"`, fmt.Sprintf(`visibility="%s"`, visibility))
	}

	if r.bios && b.person.Bio != "" {
		canvas.Title(b.person.Bio)
	}
}
