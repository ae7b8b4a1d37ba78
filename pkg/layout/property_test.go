package layout

import (
	"cmp"
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
)

const tolerance = 1e-6

func genTree(rt *rapid.T) *hierarchy.Tree {
	n := rapid.IntRange(1, 60).Draw(rt, "n")
	recs := make([]*family.Record, n)
	for i := range recs {
		recs[i] = &family.Record{Name: fmt.Sprintf("p%d", i)}
		if rapid.IntRange(0, 4).Draw(rt, fmt.Sprintf("wide%d", i)) == 0 {
			recs[i].BoxW = rapid.Float64Range(60, 300).Draw(rt, fmt.Sprintf("boxW%d", i))
		}
	}
	for i := 1; i < n; i++ {
		p := rapid.IntRange(0, i-1).Draw(rt, fmt.Sprintf("parent%d", i))
		recs[p].Children = append(recs[p].Children, recs[i])
	}
	tr, err := hierarchy.Build(recs[0])
	if err != nil {
		rt.Fatalf("Build() error = %v", err)
	}
	for _, id := range rapid.SliceOfN(rapid.IntRange(0, n-1), 0, 8).Draw(rt, "toggles") {
		tr.Toggle(hierarchy.ID(id))
	}
	return tr
}

func genConfig(rt *rapid.T) Config {
	cfg := DefaultConfig()
	if rapid.Bool().Draw(rt, "vertical") {
		cfg.Orientation = Vertical
		cfg.RankSpacing = 120
	}
	return cfg
}

func TestPropertySeparation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := genTree(rt)
		cfg := genConfig(rt)
		visible := slices.Collect(tr.VisibleDescendants(tr.Root()))
		if _, err := New(cfg).Layout(tr, visible); err != nil {
			rt.Fatalf("Layout() error = %v", err)
		}

		ranks := make(map[int][]*hierarchy.Node)
		for _, id := range visible {
			n, _ := tr.Node(id)
			ranks[n.Depth] = append(ranks[n.Depth], n)
		}
		for depth, nodes := range ranks {
			slices.SortFunc(nodes, func(a, b *hierarchy.Node) int { return cmp.Compare(a.Pos.Order, b.Pos.Order) })
			for i := 1; i < len(nodes); i++ {
				a, b := nodes[i-1], nodes[i]
				gap := b.Pos.Order - a.Pos.Order
				if need := cfg.Separation(a, b); gap < need-tolerance {
					rt.Fatalf("depth %d: %s and %s are %v apart, need %v", depth, a.Person.Name, b.Person.Name, gap, need)
				}
			}
		}
	})
}

func TestPropertySiblingOrderAndCentering(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := genTree(rt)
		visible := slices.Collect(tr.VisibleDescendants(tr.Root()))
		if _, err := New(genConfig(rt)).Layout(tr, visible); err != nil {
			rt.Fatalf("Layout() error = %v", err)
		}

		for _, id := range visible {
			n, _ := tr.Node(id)
			kids := n.VisibleChildren()
			if len(kids) == 0 {
				continue
			}
			first, _ := tr.Node(kids[0])
			last, _ := tr.Node(kids[len(kids)-1])
			if mid := (first.Pos.Order + last.Pos.Order) / 2; mid-n.Pos.Order > tolerance || n.Pos.Order-mid > tolerance {
				rt.Fatalf("%s at %v is not centered over children (mid %v)", n.Person.Name, n.Pos.Order, mid)
			}
			for i := 1; i < len(kids); i++ {
				a, _ := tr.Node(kids[i-1])
				b, _ := tr.Node(kids[i])
				if a.Pos.Order >= b.Pos.Order {
					rt.Fatalf("siblings %s and %s out of order", a.Person.Name, b.Person.Name)
				}
			}
		}
	})
}

func TestPropertyDeterminism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := genTree(rt)
		e := New(genConfig(rt))
		visible := slices.Collect(tr.VisibleDescendants(tr.Root()))

		if _, err := e.Layout(tr, visible); err != nil {
			rt.Fatalf("Layout() error = %v", err)
		}
		first := make([]hierarchy.Point, tr.Len())
		for n := range tr.All() {
			first[n.ID] = n.Pos
		}
		if _, err := e.Layout(tr, visible); err != nil {
			rt.Fatalf("Layout() error = %v", err)
		}
		for n := range tr.All() {
			if n.Pos != first[n.ID] {
				rt.Fatalf("node %d moved from %+v to %+v", n.ID, first[n.ID], n.Pos)
			}
		}
	})
}
