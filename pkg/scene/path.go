package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
)

// Connector is a link drawing style.
type Connector string

const (
	// Elbow links run along the rank axis to the midpoint between the two
	// generations, along the order axis to the child's level, and along
	// the rank axis into the child.
	Elbow Connector = "elbow"
	// Curve links are cubic Bézier curves.
	Curve Connector = "curve"
)

// ParseConnector parses a connector name. Empty means Elbow.
func ParseConnector(s string) (Connector, error) {
	switch Connector(strings.ToLower(strings.TrimSpace(s))) {
	case "", Elbow:
		return Elbow, nil
	case Curve, "diagonal":
		return Curve, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown connector %q (want elbow or curve)", s)
	}
}

// Path is the geometry of one link in layout coordinates. Both styles use
// four points so that any two paths of one style interpolate point-wise:
// an elbow stores its corners, a curve its start, control points and end.
type Path struct {
	Connector Connector          `json:"connector"`
	Points    [4]hierarchy.Point `json:"points"`
}

// Path returns the link geometry from parent to child.
func (c Connector) Path(parent, child hierarchy.Point) Path {
	dr := child.Rank - parent.Rank
	if c == Curve {
		return Path{Connector: Curve, Points: [4]hierarchy.Point{
			child,
			{Rank: child.Rank - dr*0.8, Order: child.Order},
			{Rank: child.Rank - dr*0.1, Order: parent.Order},
			parent,
		}}
	}
	mid := parent.Rank + dr/2
	return Path{Connector: Elbow, Points: [4]hierarchy.Point{
		parent,
		{Rank: mid, Order: parent.Order},
		{Rank: mid, Order: child.Order},
		child,
	}}
}

// Collapsed returns the degenerate path sitting at a single point.
func (c Connector) Collapsed(at hierarchy.Point) Path {
	return c.Path(at, at)
}

// Lerp interpolates point-wise between p and q.
func (p Path) Lerp(q Path, t float64) Path {
	out := Path{Connector: q.Connector}
	for i := range p.Points {
		out.Points[i] = p.Points[i].Lerp(q.Points[i], t)
	}
	return out
}

// D renders the path as SVG path data in screen coordinates.
func (p Path) D(o layout.Orientation) string {
	var xy [4][2]float64
	for i, pt := range p.Points {
		xy[i][0], xy[i][1] = o.Project(pt)
	}

	var b strings.Builder
	b.WriteString("M")
	writePair(&b, xy[0])
	if p.Connector == Curve {
		b.WriteString(" C")
		writePair(&b, xy[1])
		b.WriteString(" ")
		writePair(&b, xy[2])
		b.WriteString(" ")
		writePair(&b, xy[3])
		return b.String()
	}
	for _, pt := range xy[1:] {
		b.WriteString(" L")
		writePair(&b, pt)
	}
	return b.String()
}

func writePair(b *strings.Builder, xy [2]float64) {
	b.WriteString(Num(xy[0]))
	b.WriteByte(',')
	b.WriteString(Num(xy[1]))
}

// Num formats a coordinate with at most two decimals.
func Num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
