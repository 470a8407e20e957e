package treevec

import (
	"fmt"
	"sort"
)

// A Tree is a rooted, strictly binary tree over an arena of nodes addressed
// by index.  Parent and child relations are stored as indices rather than
// pointers, so structural edits are O(1) and there are no ownership cycles.
// Leaves carry the integer labels the codec operates on; internal nodes
// carry either the canonical internal id assigned by Decode (n..2n-2) or -1.
//
// Trees behave as immutable values at the API surface: Attach and RemoveLeaf
// return a fresh Tree and never alias the receiver's arena.

type NodeIndex int

const nilIndex NodeIndex = -1

type node struct {
	Parent NodeIndex
	Left   NodeIndex
	Right  NodeIndex

	// Leaf label for leaves, internal id for internal nodes, -1 if unset.
	Label int

	// Branch length on the edge to the parent, when known (Newick input).
	Length    float64
	HasLength bool

	dead bool
}

func (n node) isLeaf() bool {
	return n.Left == nilIndex
}

type Tree struct {
	nodes  []node
	root   NodeIndex
	leaves int
}

// NewLeafTree returns the trivial tree: a single leaf labeled 0, which is
// its own root.
func NewLeafTree() *Tree {
	return &Tree{
		nodes:  []node{{Parent: nilIndex, Left: nilIndex, Right: nilIndex, Label: 0}},
		root:   0,
		leaves: 1,
	}
}

func (t *Tree) clone() *Tree {
	nodes := make([]node, len(t.nodes))
	copy(nodes, t.nodes)
	return &Tree{nodes: nodes, root: t.root, leaves: t.leaves}
}

// Root returns the arena index of the root node.
func (t *Tree) Root() NodeIndex {
	return t.root
}

// NumLeaves returns the number of leaves.
func (t *Tree) NumLeaves() int {
	return t.leaves
}

// NumNodes returns the total number of nodes, 2n-1 for an n-leaf tree.
func (t *Tree) NumNodes() int {
	return 2*t.leaves - 1
}

func (t *Tree) valid(x NodeIndex) bool {
	return x >= 0 && int(x) < len(t.nodes) && !t.nodes[x].dead
}

// IsLeaf reports whether x is a leaf node.
func (t *Tree) IsLeaf(x NodeIndex) bool {
	return t.valid(x) && t.nodes[x].isLeaf()
}

// Label returns the label stored at x: the leaf label for leaves, the
// canonical internal id for decoded internal nodes, -1 when unset.
func (t *Tree) Label(x NodeIndex) int {
	if !t.valid(x) {
		return -1
	}
	return t.nodes[x].Label
}

// Parent returns the parent of x; ok is false for the root or an index
// outside the tree.
func (t *Tree) Parent(x NodeIndex) (NodeIndex, bool) {
	if !t.valid(x) || t.nodes[x].Parent == nilIndex {
		return nilIndex, false
	}
	return t.nodes[x].Parent, true
}

// Children returns the two children of x; ok is false for leaves.
func (t *Tree) Children(x NodeIndex) (NodeIndex, NodeIndex, bool) {
	if !t.valid(x) || t.nodes[x].isLeaf() {
		return nilIndex, nilIndex, false
	}
	return t.nodes[x].Left, t.nodes[x].Right, true
}

// Leaf returns the arena index of the leaf with the given label.
func (t *Tree) Leaf(label int) (NodeIndex, bool) {
	for i := range t.nodes {
		if !t.nodes[i].dead && t.nodes[i].isLeaf() && t.nodes[i].Label == label {
			return NodeIndex(i), true
		}
	}
	return nilIndex, false
}

// Leaves returns all leaf labels in ascending order.
func (t *Tree) Leaves() []int {
	out := make([]int, 0, t.leaves)
	for i := range t.nodes {
		if !t.nodes[i].dead && t.nodes[i].isLeaf() {
			out = append(out, t.nodes[i].Label)
		}
	}
	sort.Ints(out)
	return out
}

// BranchLength returns the length of the edge above x, when one was set.
func (t *Tree) BranchLength(x NodeIndex) (float64, bool) {
	if !t.valid(x) || !t.nodes[x].HasLength {
		return 0, false
	}
	return t.nodes[x].Length, true
}

// Attach returns a new tree with a fresh leaf inserted at the given slot:
// the slot's edge is split by a new internal node whose left child is the
// old subtree and whose right child is the new leaf.  Attaching at the root
// slot creates a new root.  The receiver is not modified.
func (t *Tree) Attach(slot Slot, label int) (*Tree, error) {
	if !t.valid(slot.Node) {
		return nil, InvalidOperationError{"attach", fmt.Sprintf("slot node %d is not in the tree", slot.Node)}
	}
	if _, ok := t.Leaf(label); ok {
		return nil, InvalidOperationError{"attach", fmt.Sprintf("leaf %d already present", label)}
	}

	next := t.clone()
	next.attachAt(slot.Node, label)
	return next, nil
}

// RemoveLeaf returns a new tree with the labeled leaf removed and its
// sibling subtree spliced into its place.  When both spliced edges carry
// branch lengths, the lengths are summed.  The receiver is not modified.
func (t *Tree) RemoveLeaf(label int) (*Tree, error) {
	if t.leaves == 1 {
		return nil, InvalidOperationError{"remove", "cannot remove the last leaf"}
	}
	x, ok := t.Leaf(label)
	if !ok {
		return nil, InvalidOperationError{"remove", fmt.Sprintf("leaf %d is not in the tree", label)}
	}

	next := t.clone()
	next.removeLeafAt(x)
	return next.compact(), nil
}

// attachAt splits the edge above x in place and returns the index of the
// new internal node.
func (t *Tree) attachAt(x NodeIndex, label int) NodeIndex {
	leaf := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, node{Parent: nilIndex, Left: nilIndex, Right: nilIndex, Label: label})

	mid := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, node{Parent: t.nodes[x].Parent, Left: x, Right: leaf, Label: -1})

	if p := t.nodes[x].Parent; p == nilIndex {
		t.root = mid
	} else if t.nodes[p].Left == x {
		t.nodes[p].Left = mid
	} else {
		t.nodes[p].Right = mid
	}

	t.nodes[x].Parent = mid
	t.nodes[leaf].Parent = mid
	t.leaves++
	return mid
}

// removeLeafAt deletes leaf x and its parent in place, splicing the sibling
// subtree up, and returns the sibling's index.
func (t *Tree) removeLeafAt(x NodeIndex) NodeIndex {
	p := t.nodes[x].Parent
	sib := t.nodes[p].Left
	if sib == x {
		sib = t.nodes[p].Right
	}

	g := t.nodes[p].Parent
	t.nodes[sib].Parent = g
	if g == nilIndex {
		t.root = sib
		t.nodes[sib].HasLength = false
		t.nodes[sib].Length = 0
	} else {
		if t.nodes[g].Left == p {
			t.nodes[g].Left = sib
		} else {
			t.nodes[g].Right = sib
		}
		if t.nodes[sib].HasLength && t.nodes[p].HasLength {
			t.nodes[sib].Length += t.nodes[p].Length
		} else {
			t.nodes[sib].HasLength = false
			t.nodes[sib].Length = 0
		}
	}

	t.nodes[x].dead = true
	t.nodes[p].dead = true
	t.leaves--
	return sib
}

// compact rewrites the arena without dead slots, preserving structure.
func (t *Tree) compact() *Tree {
	remap := make([]NodeIndex, len(t.nodes))
	nodes := make([]node, 0, 2*t.leaves-1)
	for i := range t.nodes {
		if t.nodes[i].dead {
			remap[i] = nilIndex
			continue
		}
		remap[i] = NodeIndex(len(nodes))
		nodes = append(nodes, t.nodes[i])
	}

	ref := func(x NodeIndex) NodeIndex {
		if x == nilIndex {
			return nilIndex
		}
		return remap[x]
	}
	for i := range nodes {
		nodes[i].Parent = ref(nodes[i].Parent)
		nodes[i].Left = ref(nodes[i].Left)
		nodes[i].Right = ref(nodes[i].Right)
	}

	return &Tree{nodes: nodes, root: remap[t.root], leaves: t.leaves}
}

// Validate checks the structural invariants: a single root, every internal
// node with exactly two children and consistent parent links, no cycles, and
// leaf labels forming exactly {0, ..., n-1}.
func (t *Tree) Validate() error {
	if !t.valid(t.root) {
		return StructuralError{"root is not a live node"}
	}
	if t.nodes[t.root].Parent != nilIndex {
		return StructuralError{"root has a parent"}
	}

	live := 0
	for i := range t.nodes {
		if t.nodes[i].dead {
			continue
		}
		live++
		x := NodeIndex(i)
		if t.nodes[i].Parent == nilIndex && x != t.root {
			return StructuralError{fmt.Sprintf("node %d is a second root", x)}
		}
		if t.nodes[i].isLeaf() {
			if t.nodes[i].Right != nilIndex {
				return StructuralError{fmt.Sprintf("leaf %d has a single child", x)}
			}
			continue
		}
		l, r := t.nodes[i].Left, t.nodes[i].Right
		if !t.valid(l) || !t.valid(r) {
			return StructuralError{fmt.Sprintf("node %d has a missing child", x)}
		}
		if t.nodes[l].Parent != x || t.nodes[r].Parent != x {
			return StructuralError{fmt.Sprintf("node %d has inconsistent child links", x)}
		}
	}

	// Walk down from the root; with parent links already checked, visiting
	// a node twice or missing a live node means a cycle or a detached
	// component.
	seen := make([]bool, len(t.nodes))
	labels := make([]bool, t.leaves)
	visited := 0
	stack := []NodeIndex{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[x] {
			return StructuralError{fmt.Sprintf("cycle through node %d", x)}
		}
		seen[x] = true
		visited++

		n := t.nodes[x]
		if n.isLeaf() {
			if n.Label < 0 || n.Label >= t.leaves {
				return StructuralError{fmt.Sprintf("leaf label %d outside 0..%d", n.Label, t.leaves-1)}
			}
			if labels[n.Label] {
				return StructuralError{fmt.Sprintf("duplicate leaf label %d", n.Label)}
			}
			labels[n.Label] = true
			continue
		}
		stack = append(stack, n.Left, n.Right)
	}
	if visited != live {
		return StructuralError{"tree has unreachable nodes"}
	}
	return nil
}
