package hierarchy

import (
	"slices"
	"testing"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// sample is the family used across tests:
//
//	root
//	├── A
//	│   ├── a1
//	│   └── a2
//	└── B
//	    ├── b1
//	    └── b2
func sample() *family.Record {
	return &family.Record{Name: "root", Children: []*family.Record{
		{Name: "A", Gender: "female", Children: []*family.Record{{Name: "a1"}, {Name: "a2"}}},
		{Name: "B", Gender: "male", Children: []*family.Record{{Name: "b1"}, {Name: "b2"}}},
	}}
}

func mustBuild(t *testing.T, rec *family.Record) *Tree {
	t.Helper()
	tr, err := Build(rec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tr
}

func names(t *Tree, ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		n, _ := t.Node(id)
		out[i] = n.Person.Name
	}
	return out
}

func visible(t *Tree) []string {
	return names(t, slices.Collect(t.VisibleDescendants(t.Root())))
}

func TestBuild(t *testing.T) {
	tr := mustBuild(t, sample())

	if tr.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", tr.Len())
	}

	want := []struct {
		name   string
		parent ID
		depth  int
		state  State
	}{
		{"root", NoParent, 0, Expanded},
		{"A", 0, 1, Expanded},
		{"a1", 1, 2, Leaf},
		{"a2", 1, 2, Leaf},
		{"B", 0, 1, Expanded},
		{"b1", 4, 2, Leaf},
		{"b2", 4, 2, Leaf},
	}
	for i, w := range want {
		n, ok := tr.Node(ID(i))
		if !ok {
			t.Fatalf("Node(%d) missing", i)
		}
		if n.ID != ID(i) || n.Person.Name != w.name || n.Parent != w.parent || n.Depth != w.depth || n.State() != w.state {
			t.Errorf("Node(%d) = {%d %q parent=%d depth=%d %v}, want {%q parent=%d depth=%d %v}",
				i, n.ID, n.Person.Name, n.Parent, n.Depth, n.State(), w.name, w.parent, w.depth, w.state)
		}
	}

	if n, _ := tr.Node(1); n.Person.Class() != "box box--female" {
		t.Errorf("A class = %q", n.Person.Class())
	}
}

func TestBuildMalformed(t *testing.T) {
	cyclic := &family.Record{Name: "root"}
	child := &family.Record{Name: "child", Children: []*family.Record{cyclic}}
	cyclic.Children = []*family.Record{child}

	shared := &family.Record{Name: "twin"}

	tests := []struct {
		name string
		rec  *family.Record
	}{
		{"nil root", nil},
		{"missing root name", &family.Record{}},
		{"blank child name", &family.Record{Name: "r", Children: []*family.Record{{Name: "  "}}}},
		{"nil child", &family.Record{Name: "r", Children: []*family.Record{nil}}},
		{"cycle", cyclic},
		{"shared subtree", &family.Record{Name: "r", Children: []*family.Record{shared, shared}}},
		{"negative box width", &family.Record{Name: "r", BoxW: -4}},
		{"spouse with newline", &family.Record{Name: "r", Spouse: &family.Spouse{Name: "a\nb"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Build(tt.rec)
			if err == nil {
				t.Fatal("Build() error = nil, want MALFORMED_INPUT")
			}
			if tr != nil {
				t.Error("Build() returned a partial tree")
			}
			if !errors.Is(err, errors.ErrCodeMalformedInput) {
				t.Errorf("Build() code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedInput)
			}
		})
	}
}

func TestBuildLenientFields(t *testing.T) {
	tr := mustBuild(t, &family.Record{Name: "r", Gender: "unknown-value", Spouse: &family.Spouse{}})
	n, _ := tr.Node(0)
	if n.Person.Gender != family.Unknown || n.Person.Class() != "box" {
		t.Errorf("gender = %v class = %q, want unknown/box", n.Person.Gender, n.Person.Class())
	}
	if n.Person.HasSpouse() {
		t.Error("empty spouse should be absent")
	}
}

func TestCollapseSubtree(t *testing.T) {
	tr := mustBuild(t, sample())

	tr.CollapseSubtree(1)
	if got := visible(tr); !slices.Equal(got, []string{"root", "A", "B", "b1", "b2"}) {
		t.Errorf("visible = %v", got)
	}
	a, _ := tr.Node(1)
	if !slices.Equal(names(tr, a.HiddenChildren()), []string{"a1", "a2"}) {
		t.Errorf("HiddenChildren(A) = %v", names(tr, a.HiddenChildren()))
	}

	// idempotent
	tr.CollapseSubtree(1)
	if a.State() != Collapsed || len(a.HiddenChildren()) != 2 {
		t.Errorf("second collapse changed A: %v %v", a.State(), a.HiddenChildren())
	}

	// leaves stay leaves
	tr.CollapseSubtree(2)
	if n, _ := tr.Node(2); n.State() != Leaf {
		t.Errorf("leaf state = %v, want leaf", n.State())
	}
}

func TestCollapseBelow(t *testing.T) {
	tr := mustBuild(t, sample())
	tr.CollapseBelow(1)

	if got := visible(tr); !slices.Equal(got, []string{"root", "A", "B"}) {
		t.Errorf("visible = %v, want [root A B]", got)
	}
	if n, _ := tr.Node(0); n.State() != Expanded {
		t.Errorf("root state = %v, want expanded", n.State())
	}
}

func TestToggle(t *testing.T) {
	tr := mustBuild(t, &family.Record{Name: "r", Children: []*family.Record{
		{Name: "a", Children: []*family.Record{
			{Name: "b", Children: []*family.Record{{Name: "c"}}},
		}},
	}})
	tr.CollapseSubtree(0)

	if !tr.Toggle(0) {
		t.Fatal("Toggle(root) = false")
	}
	if got := visible(tr); !slices.Equal(got, []string{"r", "a"}) {
		t.Errorf("after expanding root visible = %v", got)
	}

	// expanding one level leaves grandchildren collapsed
	tr.Toggle(1)
	if got := visible(tr); !slices.Equal(got, []string{"r", "a", "b"}) {
		t.Errorf("after expanding a visible = %v", got)
	}

	// collapsing and re-expanding restores the inner state
	tr.Toggle(2)
	tr.Toggle(1)
	tr.Toggle(1)
	if got := visible(tr); !slices.Equal(got, []string{"r", "a", "b", "c"}) {
		t.Errorf("after round trip visible = %v", got)
	}

	if tr.Toggle(3) {
		t.Error("Toggle(leaf) = true, want no-op")
	}
	if tr.Toggle(99) {
		t.Error("Toggle(unknown) = true, want no-op")
	}
}

func TestExpandCollapse(t *testing.T) {
	tr := mustBuild(t, sample())

	if tr.Expand(1) {
		t.Error("Expand(expanded) = true")
	}
	if !tr.Collapse(1) {
		t.Error("Collapse(expanded) = false")
	}
	if tr.Collapse(1) {
		t.Error("Collapse(collapsed) = true")
	}
	if !tr.Expand(1) {
		t.Error("Expand(collapsed) = false")
	}
}

func TestReveal(t *testing.T) {
	tr := mustBuild(t, sample())
	tr.CollapseSubtree(0)

	if tr.IsVisible(5) {
		t.Fatal("b1 visible after collapsing root")
	}
	changed := tr.Reveal(5)
	if !slices.Equal(changed, []ID{0, 4}) {
		t.Errorf("Reveal() changed = %v, want [0 4]", changed)
	}
	if !tr.IsVisible(5) {
		t.Error("b1 not visible after Reveal")
	}
	if tr.IsVisible(2) {
		t.Error("a1 visible although A is still collapsed")
	}
}

func TestVisibleDescendantsRestartable(t *testing.T) {
	tr := mustBuild(t, sample())
	seq := tr.VisibleDescendants(tr.Root())

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second traversal = %v, want %v", second, first)
	}
	if !slices.Equal(first, []ID{0, 1, 2, 3, 4, 5, 6}) {
		t.Errorf("pre-order = %v", first)
	}

	// early exit
	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early exit visited %d nodes", n)
	}

	// subtree traversal
	if got := names(tr, slices.Collect(tr.VisibleDescendants(4))); !slices.Equal(got, []string{"B", "b1", "b2"}) {
		t.Errorf("subtree = %v", got)
	}
	if got := slices.Collect(tr.VisibleDescendants(42)); len(got) != 0 {
		t.Errorf("unknown root yielded %v", got)
	}
}

func TestAncestorsAndFind(t *testing.T) {
	tr := mustBuild(t, sample())

	if got := tr.Ancestors(6); !slices.Equal(got, []ID{0, 4}) {
		t.Errorf("Ancestors(b2) = %v, want [0 4]", got)
	}
	if got := tr.Ancestors(0); len(got) != 0 {
		t.Errorf("Ancestors(root) = %v, want []", got)
	}

	id, ok := tr.FindByName(" b1 ")
	if !ok || id != 5 {
		t.Errorf("FindByName(b1) = %d, %v", id, ok)
	}
	if _, ok := tr.FindByName("nobody"); ok {
		t.Error("FindByName(nobody) found a node")
	}
}

func TestSettle(t *testing.T) {
	tr := mustBuild(t, sample())
	tr.CollapseSubtree(4)
	for n := range tr.All() {
		n.Pos = Point{Rank: float64(n.Depth), Order: float64(n.ID)}
	}
	tr.Settle()

	for n := range tr.All() {
		want := Point{}
		if tr.IsVisible(n.ID) {
			want = n.Pos
		}
		if n.Prev != want {
			t.Errorf("node %s Prev = %v, want %v", n.Person.Name, n.Prev, want)
		}
	}
}

func TestPointLerp(t *testing.T) {
	p := Point{Rank: 0, Order: 10}
	q := Point{Rank: 250, Order: -10}
	if got := p.Lerp(q, 0.5); got != (Point{Rank: 125, Order: 0}) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
	if got := p.Lerp(q, 1); got != q {
		t.Errorf("Lerp(1) = %v", got)
	}
}
