package sink

import (
	"fmt"
	"math"

	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
)

// DefaultMargin is the padding around the chart, wide enough for the
// expand icon right of the outermost boxes.
const DefaultMargin = 30.0

// frame maps layout points into a document of size w x h.
type frame struct {
	o      layout.Orientation
	dx, dy float64
	w, h   int
}

func newFrame(b layout.Bounds, o layout.Orientation, margin float64) frame {
	x0, y0 := o.Project(hierarchy.Point{Rank: b.MinRank, Order: b.MinOrder})
	x1, y1 := o.Project(hierarchy.Point{Rank: b.MaxRank, Order: b.MaxOrder})
	return frame{
		o:  o,
		dx: margin - x0,
		dy: margin - y0,
		w:  int(math.Ceil(x1 - x0 + 2*margin)),
		h:  int(math.Ceil(y1 - y0 + 2*margin)),
	}
}

// xy returns the screen position of p inside the translated group.
func (f frame) xy(p hierarchy.Point) (float64, float64) {
	return f.o.Project(p)
}

// boundsOf covers points with boxes of the configured size.
type boundsOf struct {
	cfg layout.Config
	b   layout.Bounds
	any bool
}

func (c *boundsOf) add(p hierarchy.Point, boxW float64) {
	halfRank, halfOrder := c.cfg.RankExtent()/2, c.cfg.BoxHeight/2
	if c.cfg.Orientation == layout.Horizontal {
		halfRank = boxW / 2
	} else {
		halfOrder = boxW / 2
	}
	if !c.any {
		c.b = layout.Bounds{
			MinRank: p.Rank - halfRank, MaxRank: p.Rank + halfRank,
			MinOrder: p.Order - halfOrder, MaxOrder: p.Order + halfOrder,
		}
		c.any = true
		return
	}
	c.b.MinRank = min(c.b.MinRank, p.Rank-halfRank)
	c.b.MaxRank = max(c.b.MaxRank, p.Rank+halfRank)
	c.b.MinOrder = min(c.b.MinOrder, p.Order-halfOrder)
	c.b.MaxOrder = max(c.b.MaxOrder, p.Order+halfOrder)
}

func nodeID(id hierarchy.ID) string    { return fmt.Sprintf("node-%d", id) }
func linkID(child hierarchy.ID) string { return fmt.Sprintf("link-%d", child) }
