package hierarchy

import "iter"

// Toggle flips a node between Expanded and Collapsed, one level only.
// It reports whether the state changed; leaves and unknown IDs are a no-op.
func (t *Tree) Toggle(id ID) bool {
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	switch n.state {
	case Expanded:
		n.state = Collapsed
	case Collapsed:
		n.state = Expanded
	default:
		return false
	}
	return true
}

// Expand shows the children of id. It reports whether the state changed.
func (t *Tree) Expand(id ID) bool {
	if n, ok := t.Node(id); ok && n.state == Collapsed {
		n.state = Expanded
		return true
	}
	return false
}

// Collapse hides the children of id. It reports whether the state changed.
func (t *Tree) Collapse(id ID) bool {
	if n, ok := t.Node(id); ok && n.state == Expanded {
		n.state = Collapsed
		return true
	}
	return false
}

// CollapseSubtree collapses id and every descendant that has children.
// The subtree is kept; collapsing an already collapsed node is a no-op.
func (t *Tree) CollapseSubtree(id ID) {
	if !t.Has(id) {
		return
	}
	stack := []ID{id}
	for len(stack) > 0 {
		n := t.at(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if len(n.children) == 0 {
			continue
		}
		n.state = Collapsed
		stack = append(stack, n.children...)
	}
}

// CollapseBelow collapses every node at depth >= depth. With depth 1 only
// the root and its children remain visible.
func (t *Tree) CollapseBelow(depth int) {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.Depth >= depth && len(n.children) > 0 {
			n.state = Collapsed
		}
	}
}

// Reveal expands every ancestor of id so that id becomes visible.
// It returns the ancestors whose state changed, root first.
func (t *Tree) Reveal(id ID) []ID {
	var changed []ID
	for _, a := range t.Ancestors(id) {
		if t.Expand(a) {
			changed = append(changed, a)
		}
	}
	return changed
}

// IsVisible reports whether id is reachable from the root through
// expanded nodes.
func (t *Tree) IsVisible(id ID) bool {
	if !t.Has(id) {
		return false
	}
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		if t.nodes[p].state != Expanded {
			return false
		}
	}
	return true
}

// VisibleDescendants returns a pre-order traversal of the nodes reachable
// from root through expanded nodes, root included. The sequence is lazy
// and restartable; the tree must not be modified while it is consumed.
func (t *Tree) VisibleDescendants(root ID) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		if !t.Has(root) {
			return
		}
		stack := []ID{root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(id) {
				return
			}
			kids := t.nodes[id].VisibleChildren()
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// VisibleCount returns the size of the visible set below root.
func (t *Tree) VisibleCount(root ID) int {
	n := 0
	for range t.VisibleDescendants(root) {
		n++
	}
	return n
}
