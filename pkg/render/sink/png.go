package sink

import (
	"bytes"
	"image/color"
	"slices"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/lineage/pkg/fonts"
	"github.com/matzehuels/lineage/pkg/render/styles"
	"github.com/matzehuels/lineage/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	theme  styles.Theme
	margin float64
	scale  float64
}

// WithPNGTheme sets the colors.
func WithPNGTheme(t styles.Theme) PNGOption { return func(r *pngRenderer) { r.theme = t } }

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG draws the scene at rest as a raster image. It draws natively,
// so unlike PDF output it needs no external tools.
func RenderPNG(snap scene.Snapshot, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{theme: styles.DefaultTheme(), margin: DefaultMargin, scale: 2}
	for _, opt := range opts {
		opt(&r)
	}

	nameFace, err := fonts.Face(fonts.Bold, styles.FontSize)
	if err != nil {
		return nil, err
	}
	f := newFrame(snap.Bounds, snap.Layout.Orientation, r.margin)

	dc := gg.NewContext(int(float64(f.w)*r.scale), int(float64(f.h)*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetColor(r.color(r.theme.Background))
	dc.Clear()
	dc.Translate(f.dx, f.dy)

	dc.SetColor(r.color(r.theme.Link))
	dc.SetLineWidth(1.5)
	for _, l := range snap.Links {
		var xy [4][2]float64
		for i, p := range l.Path.Points {
			xy[i][0], xy[i][1] = f.xy(p)
		}
		dc.MoveTo(xy[0][0], xy[0][1])
		if l.Path.Connector == scene.Curve {
			dc.CubicTo(xy[1][0], xy[1][1], xy[2][0], xy[2][1], xy[3][0], xy[3][1])
		} else {
			for _, pt := range xy[1:] {
				dc.LineTo(pt[0], pt[1])
			}
		}
		dc.Stroke()
	}

	for _, n := range slices.Backward(snap.Nodes) {
		x, y := f.xy(n.Pos)
		w, h := n.Person.Width(snap.Layout.BoxWidth), snap.Layout.BoxHeight

		dc.DrawRectangle(x-w/2, y-h/2, w, h)
		dc.SetColor(r.color(r.theme.Fill(n.Person.Gender)))
		dc.FillPreserve()
		dc.SetColor(r.color(r.theme.Stroke))
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.SetColor(r.color(r.theme.Text))
		dc.SetFontFace(nameFace)
		name := styles.Fit(n.Person.Name, w, styles.FontSize)
		if !n.Person.HasSpouse() {
			dc.DrawStringAnchored(name, x, y, 0.5, 0.35)
		} else {
			dc.DrawStringAnchored(name, x, y-h/4+2, 0.5, 0.35)
			face, err := fonts.Face(fonts.Regular, styles.SpouseSize(n.Person))
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(face)
			dc.DrawStringAnchored(styles.Fit(n.Person.SpouseLabel(), w, styles.SpouseSize(n.Person)), x, y+h/4, 0.5, 0.35)
		}

		if n.HasChildren && n.Collapsed {
			face, err := fonts.Face(fonts.Regular, 14)
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(face)
			dc.DrawStringAnchored(styles.ExpandIcon, x+styles.ExpandIconX(w), y, 0.5, 0.35)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) color(hex string) color.Color {
	c, err := styles.ParseHex(hex)
	if err != nil {
		return color.Black
	}
	return c
}
