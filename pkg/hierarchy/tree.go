package hierarchy

import (
	"iter"
	"strings"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// MaxNodes bounds the size of a tree built from untrusted input.
const MaxNodes = 100_000

// Tree is an arena of nodes rooted at ID 0.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes []Node
}

// Build constructs a tree from a record hierarchy.
//
// Nodes are created depth-first; each gets the next ID in pre-order, its
// parent's ID and its depth. Every node with children starts Expanded.
//
// Build fails with a MALFORMED_INPUT error if rec is nil, a record has no
// name, a box width is invalid, the same record is reachable twice (a
// cycle or a shared subtree) or the tree has more than [MaxNodes] nodes.
// On error no tree is returned.
func Build(rec *family.Record) (*Tree, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "missing root record")
	}

	b := builder{seen: make(map[*family.Record]struct{})}
	if err := b.add(rec, NoParent, 0); err != nil {
		return nil, err
	}
	return &Tree{nodes: b.nodes}, nil
}

type builder struct {
	nodes []Node
	seen  map[*family.Record]struct{}
	path  []string
}

func (b *builder) add(rec *family.Record, parent ID, depth int) error {
	if rec == nil {
		return b.fail("nil child record")
	}
	if _, dup := b.seen[rec]; dup {
		return b.fail("record %q is reachable more than once (cycle or shared subtree)", rec.Name)
	}
	if len(b.nodes) >= MaxNodes {
		return b.fail("tree exceeds %d nodes", MaxNodes)
	}
	if err := errors.ValidateLabel(rec.Name); err != nil {
		return b.wrap(err, "invalid name")
	}
	if err := errors.ValidateBoxWidth(rec.BoxW); err != nil {
		return b.wrap(err, "record %q", rec.Name)
	}
	if rec.Spouse != nil && strings.TrimSpace(rec.Spouse.Name) != "" {
		if err := errors.ValidateLabel(rec.Spouse.Name); err != nil {
			return b.wrap(err, "record %q: invalid spouse", rec.Name)
		}
	}
	b.seen[rec] = struct{}{}

	id := ID(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Parent: parent,
		Depth:  depth,
		Person: family.NewPerson(rec),
	})
	if parent != NoParent {
		p := &b.nodes[parent]
		p.children = append(p.children, id)
		p.state = Expanded
	}

	b.path = append(b.path, rec.Name)
	for _, c := range rec.Children {
		if err := b.add(c, id, depth+1); err != nil {
			return err
		}
	}
	b.path = b.path[:len(b.path)-1]
	return nil
}

func (b *builder) fail(format string, args ...any) error {
	return errors.New(errors.ErrCodeMalformedInput, "at %s: "+format, append([]any{b.where()}, args...)...)
}

func (b *builder) wrap(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeMalformedInput, err, "at %s: "+format, append([]any{b.where()}, args...)...)
}

func (b *builder) where() string {
	if len(b.path) == 0 {
		return "root"
	}
	return strings.Join(b.path, " > ")
}

// Len returns the number of nodes, visible or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root ID.
func (t *Tree) Root() ID { return 0 }

// Node returns the node with the given ID.
func (t *Tree) Node(id ID) (*Node, bool) {
	if !t.Has(id) {
		return nil, false
	}
	return &t.nodes[id], true
}

// Has reports whether id names a node of t.
func (t *Tree) Has(id ID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// at returns the node for a known-valid ID.
func (t *Tree) at(id ID) *Node { return &t.nodes[id] }

// All iterates over every node in ID order.
func (t *Tree) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := range t.nodes {
			if !yield(&t.nodes[i]) {
				return
			}
		}
	}
}

// FindByName returns the first node, in ID order, whose name equals name
// (case-insensitive).
func (t *Tree) FindByName(name string) (ID, bool) {
	name = strings.TrimSpace(name)
	for i := range t.nodes {
		if strings.EqualFold(t.nodes[i].Person.Name, name) {
			return ID(i), true
		}
	}
	return 0, false
}

// Ancestors returns the IDs from the root down to id's parent.
func (t *Tree) Ancestors(id ID) []ID {
	if !t.Has(id) {
		return nil
	}
	var out []ID
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Settle makes every visible node's current position its previous one.
func (t *Tree) Settle() {
	for id := range t.VisibleDescendants(t.Root()) {
		n := t.at(id)
		n.Prev = n.Pos
	}
}
